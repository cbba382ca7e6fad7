package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunMutex_Clean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.lock")
	if err := runMutex(path, false); err != nil {
		t.Fatalf("runMutex: %v", err)
	}
}

func TestRunFileAuto_Healthy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := runFileAuto(path, false, false); err != nil {
		t.Fatalf("runFileAuto: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != greeting {
		t.Fatalf("file contains %q, want %q", data, greeting)
	}
}

func TestRunFileExplicit_FlushFailure(t *testing.T) {
	var out bytes.Buffer
	if err := runFileExplicit(&out, "/mnt/nfs/out.txt", true, false); err != nil {
		t.Fatalf("runFileExplicit: %v", err)
	}
	if !strings.Contains(out.String(), "close failed") {
		t.Fatalf("output %q missing close failure notice", out.String())
	}
}

func TestRunUnwind_SingleFailurePropagates(t *testing.T) {
	err := runUnwind(1)
	if err == nil || !strings.Contains(err.Error(), "charlie") {
		t.Fatalf("runUnwind(1) = %v, want charlie cleanup failure", err)
	}
	if err := runUnwind(0); err != nil {
		t.Fatalf("runUnwind(0) = %v, want nil", err)
	}
}
