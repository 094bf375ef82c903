package db

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/IT22091352/wasana-products/internal/utils"
)

// mockMongoDuplicateKeyError creates an error that IsMongoDuplicateKeyError will recognize.
func mockMongoDuplicateKeyError(key string) error {
	mongoErr := mongo.WriteError{
		Code:    11000, // Duplicate key error code
		Message: fmt.Sprintf("E11000 duplicate key error collection: test.collection index: _id_ dup key: { : \"%s\" }", key),
	}
	return mongo.WriteException{WriteErrors: []mongo.WriteError{mongoErr}}
}

func TestWithRetries_SuccessfulFirstAttempt(t *testing.T) {
	var opCalled int
	operation := func() error {
		opCalled++
		return nil
	}

	err := WithRetries(operation, 3, IsMongoDuplicateKeyError)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if opCalled != 1 {
		t.Errorf("Expected operation to be called 1 time, got %d", opCalled)
	}
}

func TestWithRetries_FailureNonDuplicateKey(t *testing.T) {
	var opCalled int
	expectedErr := errors.New("some other error")
	operation := func() error {
		opCalled++
		return expectedErr
	}

	err := WithRetries(operation, 3, IsMongoDuplicateKeyError)
	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected error %v, got %v", expectedErr, err)
	}
	if opCalled != 1 {
		t.Errorf("Expected operation to be called 1 time, got %d", opCalled)
	}
}

func TestWithRetries_ExhaustRetries(t *testing.T) {
	var opCalled int
	collidingID := "1700000000000aaaaaaaaa"

	operation := func() error {
		opCalled++
		// Always return a duplicate key error for this test
		return mockMongoDuplicateKeyError(collidingID)
	}

	maxRetries := 3
	err := WithRetries(operation, maxRetries, IsMongoDuplicateKeyError)

	if err == nil {
		t.Fatal("Expected a duplicate key error, got nil")
	}
	if !IsMongoDuplicateKeyError(err) {
		t.Errorf("Expected a Mongo duplicate key error, got %T: %v", err, err)
	}

	expectedOpCalls := maxRetries + 1
	if opCalled != expectedOpCalls {
		t.Errorf("Expected operation to be called %d times, got %d", expectedOpCalls, opCalled)
	}
}

func TestWithRetries_CollisionResolves(t *testing.T) {
	originalHook := utils.NewRecordIDHook
	defer func() { utils.NewRecordIDHook = originalHook }()

	id1 := "1700000000000aaaaaaaa1"
	id2 := "1700000000000aaaaaaaa2" // Different ID to resolve collision

	idsToReturn := []string{id1, id1, id2} // NewRecordID() will provide: id1 (dup), id1 (dup), id2 (ok)
	hookCallCount := 0
	utils.NewRecordIDHook = func() (string, bool) {
		if hookCallCount < len(idsToReturn) {
			id := idsToReturn[hookCallCount]
			hookCallCount++
			return id, true
		}
		return "", false
	}

	insertedIDs := make(map[string]bool)
	// Pre-populate to make the first attempt with id1 a collision
	insertedIDs[id1] = true

	var opCalled int

	operation := func() error {
		opCalled++
		newID := utils.NewRecordID() // This will use our hook

		if insertedIDs[newID] {
			return mockMongoDuplicateKeyError(newID)
		}
		insertedIDs[newID] = true
		return nil
	}

	maxRetries := 3
	err := WithRetries(operation, maxRetries, IsMongoDuplicateKeyError)

	if err != nil {
		t.Fatalf("Expected no error as collision should resolve, got: %v", err)
	}

	// Op1: id1 collides. Op2: id1 collides again. Op3: id2 succeeds.
	expectedOpCalls := 3
	if opCalled != expectedOpCalls {
		t.Errorf("Expected operation to be called %d times, got %d", expectedOpCalls, opCalled)
	}

	if !insertedIDs[id2] {
		t.Errorf("Expected ID %s to be inserted after retry", id2)
	}
	if len(insertedIDs) != 2 {
		t.Errorf("Expected 2 unique IDs to be inserted, got %d", len(insertedIDs))
	}

	expectedHookCalls := 3
	if hookCallCount != expectedHookCalls {
		t.Errorf("Expected NewRecordIDHook to be called %d times, got %d", expectedHookCalls, hookCallCount)
	}
}
