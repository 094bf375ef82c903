package diag

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Substitution records one character replaced during encoding.
type Substitution struct {
	Char    string
	Encoded string
}

// shouldEscape reports whether c must be percent-encoded in the password part
// of a connection string. The unreserved set matches what browsers leave
// untouched, so an encoded password behaves identically in both places.
func shouldEscape(c byte) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return false
	}
	switch c {
	case '-', '_', '.', '~', '!', '*', '\'', '(', ')':
		return false
	}
	return true
}

const upperhex = "0123456789ABCDEF"

// EncodePassword percent-encodes password for use inside a MongoDB URI and
// reports which characters were substituted.
func EncodePassword(password string) (string, []Substitution) {
	var sb strings.Builder
	seen := make(map[byte]bool)
	var subs []Substitution

	for i := 0; i < len(password); i++ {
		c := password[i]
		if !shouldEscape(c) {
			sb.WriteByte(c)
			continue
		}
		encoded := "%" + string(upperhex[c>>4]) + string(upperhex[c&0xf])
		sb.WriteString(encoded)
		if !seen[c] {
			seen[c] = true
			subs = append(subs, Substitution{Char: string(c), Encoded: encoded})
		}
	}
	return sb.String(), subs
}

// RunEncoder reads a password from in and writes its encoded form plus the
// substitutions applied to out.
func RunEncoder(in io.Reader, out io.Writer) error {
	fmt.Fprint(out, "Enter your MongoDB Atlas password: ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return err
		}
		return fmt.Errorf("no password entered")
	}
	password := scanner.Text()
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	encoded, subs := EncodePassword(password)
	fmt.Fprintf(out, "\nEncoded password:\n  %s\n", encoded)
	if len(subs) > 0 {
		fmt.Fprintln(out, "\nSubstitutions applied:")
		for _, sub := range subs {
			char := sub.Char
			if char == " " {
				char = "(space)"
			}
			fmt.Fprintf(out, "  %s -> %s\n", char, sub.Encoded)
		}
	}
	fmt.Fprintf(out, "\nUse it in the connection string:\n  MONGO_URI=mongodb+srv://username:%s@cluster.mongodb.net/wasana_products?retryWrites=true&w=majority\n", encoded)
	return nil
}
