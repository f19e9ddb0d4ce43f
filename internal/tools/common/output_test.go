package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestWriteCIResult(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCIResult(&buf, false, "seed token", []string{"role: admin"}, errors.New("user not found")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got CIResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.OK || got.Title != "seed token" || got.Error != "user not found" || len(got.Details) != 1 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestRunCIModeUsesTimeout(t *testing.T) {
	details, err := Run(true, time.Millisecond, "migrate", "status", func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return []string{"pending tables: 0"}, ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) || len(details) != 1 {
		t.Fatalf("unexpected result details=%v err=%v", details, err)
	}
}
