package gitinfo_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rsjslint/rsjslint/internal/adapters/outbound/gitinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitInfo_IsGitRepo_True(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")

	gi := gitinfo.New()
	assert.True(t, gi.IsGitRepo(dir))
}

func TestGitInfo_IsGitRepo_False(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	assert.False(t, gi.IsGitRepo(dir))
}

func TestGitInfo_CommitHash_ReturnsHash(t *testing.T) {
	dir := committedRepo(t)

	gi := gitinfo.New()
	hash, err := gi.CommitHash(dir)
	require.NoError(t, err)
	assert.Len(t, hash, 40, "should be a full SHA-1 hash")
}

func TestGitInfo_CommitHash_NotGitRepo(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	_, err := gi.CommitHash(dir)
	assert.Error(t, err)
}

func TestGitInfo_ChangedFiles(t *testing.T) {
	dir := committedRepo(t)
	write(t, dir, "web/behaviors/menu.js", "$('.js-menu');\n")
	write(t, dir, "web/views/index.html", "<p>changed</p>\n")
	write(t, dir, "web/behaviors/new.js", "// new\n")
	write(t, dir, "other/outside.js", "// outside\n")

	gi := gitinfo.New()
	changed, err := gi.ChangedFiles(filepath.Join(dir, "web"))
	require.NoError(t, err)
	assert.Equal(t, []string{"behaviors/menu.js", "behaviors/new.js", "views/index.html"}, changed)
}

func TestGitInfo_ChangedFiles_Clean(t *testing.T) {
	dir := committedRepo(t)

	changed, err := gitinfo.New().ChangedFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestGitInfo_ChangedFiles_NotGitRepo(t *testing.T) {
	_, err := gitinfo.New().ChangedFiles(t.TempDir())
	assert.Error(t, err)
}

func committedRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")

	write(t, dir, "web/behaviors/menu.js", "$(document).on('click', '[data-js-menu]', fn);\n")
	write(t, dir, "web/views/index.html", "<p>hello</p>\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")
	return dir
}

func write(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
}
