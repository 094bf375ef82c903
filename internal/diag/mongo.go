// Package diag holds the operator-facing diagnostics behind the diag and
// encodepw run modes: a MongoDB connection-string check with a live
// connect attempt, and a password URL-encoder for Atlas credentials.
package diag

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// connectTimeout bounds the live connection attempt.
const connectTimeout = 10 * time.Second

// URIReport is what CheckURI could learn from the connection string without
// touching the network.
type URIReport struct {
	Username string
	Database string
	Warnings []string
}

// placeholderCredentials are values people leave in after copying the example
// string from the Atlas dashboard.
var placeholderCredentials = map[string]bool{
	"username":      true,
	"user":          true,
	"password":      true,
	"<username>":    true,
	"<password>":    true,
	"your_password": true,
}

var credentialsPattern = regexp.MustCompile(`^mongodb(?:\+srv)?://([^:/@]+):([^@]+)@`)

// passwordSpecialChars need URL encoding inside a connection string.
const passwordSpecialChars = "@#$%&+=/?;: "

// CheckURI inspects a MongoDB connection string for the misconfigurations
// that account for nearly every "cannot connect" report: missing string,
// wrong scheme, unencoded password characters, placeholder credentials, and
// a missing database name.
func CheckURI(uri string) URIReport {
	var report URIReport

	if uri == "" {
		report.Warnings = append(report.Warnings, "MONGO_URI is not set")
		return report
	}

	if !strings.HasPrefix(uri, "mongodb+srv://") && !strings.HasPrefix(uri, "mongodb://") {
		report.Warnings = append(report.Warnings, "connection string should start with mongodb+srv:// or mongodb://")
	}

	if match := credentialsPattern.FindStringSubmatch(uri); match != nil {
		username, password := match[1], match[2]
		report.Username = username

		if placeholderCredentials[strings.ToLower(username)] || placeholderCredentials[strings.ToLower(password)] {
			report.Warnings = append(report.Warnings, "credentials look like placeholders copied from the Atlas example")
		}

		// A raw special character here means the password was pasted
		// without URL encoding and the driver will misparse the URI.
		if !strings.Contains(password, "%") && strings.ContainsAny(password, passwordSpecialChars) {
			encoded, _ := EncodePassword(password)
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("password contains special characters that need URL encoding; encoded form: %s", encoded))
		}
	} else if strings.Contains(uri, "@") {
		report.Warnings = append(report.Warnings, "could not parse username/password from connection string")
	}

	if host, _, found := strings.Cut(strings.TrimPrefix(strings.TrimPrefix(uri, "mongodb+srv://"), "mongodb://"), "?"); found || host != "" {
		afterAt := host
		if i := strings.LastIndex(host, "@"); i >= 0 {
			afterAt = host[i+1:]
		}
		if _, db, ok := strings.Cut(afterAt, "/"); ok && db != "" {
			report.Database = db
		} else {
			report.Warnings = append(report.Warnings, "database name not found in connection string (expected .../wasana_products?...)")
		}
	}

	return report
}

// FailureClass buckets a connection error into the causes an operator can
// act on.
type FailureClass string

const (
	FailureAuth    FailureClass = "authentication"
	FailureDNS     FailureClass = "dns"
	FailureTimeout FailureClass = "timeout"
	FailureUnknown FailureClass = "unknown"
)

// ClassifyError maps a driver error to a FailureClass.
func ClassifyError(err error) FailureClass {
	if err == nil {
		return FailureUnknown
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "authentication failed"), strings.Contains(msg, "bad auth"), strings.Contains(msg, "auth error"):
		return FailureAuth
	case strings.Contains(msg, "no such host"), strings.Contains(msg, "dns"), strings.Contains(msg, "lookup"):
		return FailureDNS
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "connection refused"):
		return FailureTimeout
	default:
		return FailureUnknown
	}
}

// adviceFor returns the operator guidance for a failure class.
func adviceFor(class FailureClass) []string {
	switch class {
	case FailureAuth:
		return []string{
			"Check username/password in the Atlas dashboard",
			"URL-encode special characters in the password (run with -m encodepw)",
			"Make sure there are no spaces around the credentials",
		}
	case FailureDNS:
		return []string{
			"Check the cluster URL in the Atlas dashboard",
			"Copy the connection string again from Atlas",
		}
	case FailureTimeout:
		return []string{
			"Check Network Access in the Atlas dashboard (add your IP or 0.0.0.0/0)",
			"Check firewall and internet connectivity",
		}
	default:
		return nil
	}
}

// Run performs the full diagnostic: static URI checks, then a bounded
// connect and ping, writing findings to out. Returns nil when the ping
// succeeds.
func Run(ctx context.Context, uri string, out io.Writer) error {
	fmt.Fprintln(out, "Checking MongoDB connection string...")

	report := CheckURI(uri)
	if report.Username != "" {
		fmt.Fprintf(out, "  username: %s\n", report.Username)
	}
	if report.Database != "" {
		fmt.Fprintf(out, "  database: %s\n", report.Database)
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(out, "  WARNING: %s\n", warning)
	}
	if uri == "" {
		return fmt.Errorf("no connection string to test")
	}

	fmt.Fprintln(out, "Attempting to connect...")
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(connectTimeout))
	if err == nil {
		defer func() { _ = client.Disconnect(context.Background()) }()
		err = client.Ping(ctx, readpref.Primary())
	}

	if err != nil {
		class := ClassifyError(err)
		fmt.Fprintf(out, "CONNECTION FAILED (%s)\n", class)
		fmt.Fprintf(out, "  error: %v\n", err)
		for _, line := range adviceFor(class) {
			fmt.Fprintf(out, "  - %s\n", line)
		}
		return err
	}

	fmt.Fprintln(out, "SUCCESS: connected and pinged the deployment")
	return nil
}
