package renamelog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchren/internal/transform"
)

var fixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)

func TestFileName(t *testing.T) {
	l := New("/data", transform.DefaultRules(), fixedTime)
	assert.Equal(t, "rename_log_20240115_103000.txt", l.FileName())
	assert.Equal(t, filepath.Join("/data", "rename_log_20240115_103000.txt"), l.Path())
	assert.NotEqual(t, uuid.Nil, l.Header.RunID)
}

func TestRecordLine(t *testing.T) {
	assert.Equal(t, "RENAMED: /d/a.b.txt -> /d/a_b.txt",
		Record{Status: StatusRenamed, SourcePath: "/d/a.b.txt", DestinationPath: "/d/a_b.txt"}.Line())
	assert.Equal(t, "SKIPPED: /d/x.y.txt -> /d/x_y.txt (destination exists)",
		Record{Status: StatusSkipped, SourcePath: "/d/x.y.txt", DestinationPath: "/d/x_y.txt", Reason: ReasonDestinationExists}.Line())
	assert.Equal(t, "FAILED: /d/c.d.txt -> Permission denied",
		Record{Status: StatusFailed, SourcePath: "/d/c.d.txt", DestinationPath: "/d/c_d.txt", Reason: "Permission denied"}.Line())
}

func TestAdd_Tally(t *testing.T) {
	l := New("/d", transform.DefaultRules(), fixedTime)
	l.Add(Record{Status: StatusRenamed})
	l.Add(Record{Status: StatusSkipped})
	l.Add(Record{Status: StatusFailed})
	l.Add(Record{Status: StatusRenamed})

	assert.Equal(t, 2, l.SuccessCount)
	assert.Equal(t, 2, l.ErrorCount)
	assert.Len(t, l.Records, 4)
}

func TestWriteTo_Format(t *testing.T) {
	l := New("/d", transform.Rules{Replacement: "", Prefix: "pre_", Suffix: "_suf"}, fixedTime)
	l.Add(Record{Status: StatusRenamed, SourcePath: "/d/a.b.txt", DestinationPath: "/d/pre_ab_suf.txt"})
	l.Add(Record{Status: StatusFailed, SourcePath: "/d/c.d.txt", Reason: "Permission denied"})

	var buf bytes.Buffer
	n, err := l.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	expected := strings.Join([]string{
		"Rename Operation Log - 20240115_103000",
		"Run ID: " + l.Header.RunID.String(),
		"Directory: /d",
		"Replacement: (removed)",
		"Prefix: 'pre_'",
		"Suffix: '_suf'",
		Divider,
		"",
		"RENAMED: /d/a.b.txt -> /d/pre_ab_suf.txt",
		"FAILED: /d/c.d.txt -> Permission denied",
		"",
		"Summary: 1 successful, 1 errors",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestWriteTo_OmitsUnsetAffixes(t *testing.T) {
	l := New("/d", transform.DefaultRules(), fixedTime)

	var buf bytes.Buffer
	_, err := l.WriteTo(&buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Replacement: '_'\n")
	assert.NotContains(t, out, "Prefix:")
	assert.NotContains(t, out, "Suffix:")
	assert.Contains(t, out, "Summary: 0 successful, 0 errors\n")
}

func TestWrite_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, transform.DefaultRules(), fixedTime)
	l.Add(Record{Status: StatusRenamed, SourcePath: filepath.Join(dir, "a.b"), DestinationPath: filepath.Join(dir, "a_b")})

	path, err := l.Write()
	require.NoError(t, err)
	assert.Equal(t, l.Path(), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "RENAMED: ")
	assert.True(t, strings.HasSuffix(string(data), "Summary: 1 successful, 0 errors\n"))
}

func TestWrite_MissingDirectory(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "gone"), transform.DefaultRules(), fixedTime)

	path, err := l.Write()
	require.Error(t, err)
	assert.Empty(t, path)
	assert.Contains(t, err.Error(), "failed to open rename log")
}

func TestReplacementDisplay(t *testing.T) {
	assert.Equal(t, "'_'", ReplacementDisplay("_"))
	assert.Equal(t, "(removed)", ReplacementDisplay(""))
}
