package main_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "rsjslint-e2e")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(dir, "rsjslint")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(dir)
		panic("build failed: " + string(out))
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func fixturePath(name string) string {
	abs, _ := filepath.Abs(filepath.Join("../../testdata/projects", name))
	return abs
}

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}
	return stdout.String(), stderr.String(), exitCode
}

func TestE2E_Conforming(t *testing.T) {
	out, _, code := run(t, "check", fixturePath("conforming"))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "no violations")
}

func TestE2E_ViolatingExitsOne(t *testing.T) {
	out, errOut, code := run(t, "check", fixturePath("violating"), "--format", "json")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "at or above threshold")

	var violations []domain.Violation
	require.NoError(t, json.Unmarshal([]byte(out), &violations), "stdout must hold only the report")
	assert.Len(t, violations, 9)
}

func TestE2E_EmptyProject(t *testing.T) {
	out, _, code := run(t, "check", t.TempDir(), "--format", "json")
	assert.Equal(t, 0, code)
	assert.Equal(t, "[]\n", out)
}

func TestE2E_InvocationErrorsExitTwo(t *testing.T) {
	_, errOut, code := run(t, "check", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "rsjslint:")

	_, _, code = run(t, "check", fixturePath("conforming"), "--threshold", "fatal")
	assert.Equal(t, 2, code)
}

func TestE2E_Version(t *testing.T) {
	out, _, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "rsjslint")
}
