package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchren/internal/transform"
)

// DirectoryStructure represents a generated directory structure for testing.
type DirectoryStructure struct {
	Files       []string // File names to create
	Directories []string // Subdirectory names to create
}

// genFileName generates visible file names, some with internal separators.
func genFileName() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(1, 12).FlatMap(func(length interface{}) gopter.Gen {
			return gen.SliceOfN(length.(int), gen.AlphaLowerChar())
		}, reflect.TypeOf([]rune{})),
		gen.OneConstOf("", ".v1", " copy", ".a.b"),
	).Map(func(vals []interface{}) string {
		return string(vals[0].([]rune)) + vals[1].(string) + ".txt"
	})
}

// genDirName generates visible directory names.
func genDirName() gopter.Gen {
	return gen.IntRange(1, 12).FlatMap(func(length interface{}) gopter.Gen {
		return gen.SliceOfN(length.(int), gen.AlphaLowerChar())
	}, reflect.TypeOf([]rune{})).Map(func(chars []rune) string {
		return "dir_" + string(chars)
	})
}

// genDirectoryStructure generates files and subdirectories with unique names.
func genDirectoryStructure() gopter.Gen {
	return gopter.CombineGens(
		gen.SliceOfN(5, genFileName()),
		gen.SliceOfN(3, genDirName()),
	).Map(func(vals []interface{}) DirectoryStructure {
		files := vals[0].([]string)
		dirs := vals[1].([]string)

		seen := make(map[string]bool)
		uniqueFiles := []string{}
		for _, f := range files {
			if !seen[f] {
				seen[f] = true
				uniqueFiles = append(uniqueFiles, f)
			}
		}

		uniqueDirs := []string{}
		for _, d := range dirs {
			if !seen[d] {
				seen[d] = true
				uniqueDirs = append(uniqueDirs, d)
			}
		}

		return DirectoryStructure{Files: uniqueFiles, Directories: uniqueDirs}
	})
}

// setupTestDirectory creates a temporary directory with the given structure.
func setupTestDirectory(t *testing.T, structure DirectoryStructure) string {
	tmpDir := t.TempDir()

	for _, fileName := range structure.Files {
		writeFile(t, filepath.Join(tmpDir, fileName))
	}
	for _, dirName := range structure.Directories {
		require.NoError(t, os.Mkdir(filepath.Join(tmpDir, dirName), 0755))
	}

	return tmpDir
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("test content"), 0644))
}

func TestScanNeverReturnsDirectories(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("entries are files whose name changes", prop.ForAll(
		func(structure DirectoryStructure) bool {
			tmpDir := setupTestDirectory(t, structure)

			result, err := Scan(tmpDir, DefaultScanOptions(), transform.DefaultRules())
			if err != nil {
				t.Logf("Scan failed: %v", err)
				return false
			}

			if result.Stats.FilesScanned != len(structure.Files) {
				t.Logf("Expected %d files scanned, got %d", len(structure.Files), result.Stats.FilesScanned)
				return false
			}
			if result.Stats.FilesToRename+result.Stats.FilesUnchanged != len(structure.Files) {
				t.Logf("Rename and unchanged counts do not add up: %+v", result.Stats)
				return false
			}

			for _, entry := range result.Entries {
				info, err := os.Stat(entry.OriginalPath)
				if err != nil || info.IsDir() {
					t.Logf("Entry %s is not a regular file", entry.OriginalName)
					return false
				}
				if entry.NewName == entry.OriginalName {
					t.Logf("Entry %s does not change", entry.OriginalName)
					return false
				}
			}

			return len(result.Entries) == result.Stats.FilesToRename
		},
		genDirectoryStructure(),
	))

	properties.TestingRun(t)
}

func TestScan_NonRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "t2.v1.image.jpg.mp4"))
	writeFile(t, filepath.Join(root, "clean.txt"))
	writeFile(t, filepath.Join(root, ".hidden.file"))
	writeFile(t, filepath.Join(root, "sub", "nested.file.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))

	result, err := Scan(root, DefaultScanOptions(), transform.DefaultRules())
	require.NoError(t, err)

	require.Len(t, result.Entries, 1)
	entry := result.Entries[0]
	assert.Equal(t, "t2.v1.image.jpg.mp4", entry.OriginalName)
	assert.Equal(t, "t2_v1_image_jpg.mp4", entry.NewName)
	assert.Equal(t, filepath.Join(root, "t2_v1_image_jpg.mp4"), entry.NewPath)
	assert.Equal(t, root, entry.Dir())

	assert.Equal(t, ScanStats{
		FilesScanned:       3,
		HiddenFilesSkipped: 1,
		HiddenDirsSkipped:  1,
		FilesUnchanged:     1,
		FilesToRename:      1,
		DirectoriesScanned: 1,
	}, result.Stats)
	assert.Empty(t, result.Warnings)
}

func TestScan_RecursivePrunesHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.b.txt"))
	writeFile(t, filepath.Join(root, "sub", "c d.txt"))
	writeFile(t, filepath.Join(root, "sub", "deeper", "e.f.g"))
	writeFile(t, filepath.Join(root, ".cache", "never.seen.txt"))
	writeFile(t, filepath.Join(root, "sub", ".secret", "also.never.txt"))

	opts := DefaultScanOptions()
	opts.Recursive = true
	result, err := Scan(root, opts, transform.DefaultRules())
	require.NoError(t, err)

	names := make([]string, 0, len(result.Entries))
	for _, e := range result.Entries {
		names = append(names, e.NewName)
	}
	assert.Equal(t, []string{"a_b.txt", "c_d.txt", "e_f.g"}, names)

	assert.Equal(t, 3, result.Stats.FilesScanned)
	assert.Equal(t, 2, result.Stats.HiddenDirsSkipped)
	assert.Equal(t, 3, result.Stats.DirectoriesScanned)
	assert.Equal(t, filepath.Join(root, "sub", "deeper", "e_f.g"), result.Entries[2].NewPath)
}

func TestScan_OnlyHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".a.b"))
	writeFile(t, filepath.Join(root, ".profile"))
	writeFile(t, filepath.Join(root, ".config", "x.y.z"))
	require.NoError(t, os.Mkdir(filepath.Join(root, ".empty"), 0755))

	for _, recursive := range []bool{false, true} {
		opts := DefaultScanOptions()
		opts.Recursive = recursive
		result, err := Scan(root, opts, transform.Rules{Replacement: "_", Prefix: "p_"})
		require.NoError(t, err)

		assert.Empty(t, result.Entries)
		assert.Equal(t, 2, result.Stats.FilesScanned)
		assert.Equal(t, 2, result.Stats.HiddenFilesSkipped)
		assert.Equal(t, 2, result.Stats.HiddenDirsSkipped)
		assert.Equal(t, 0, result.Stats.FilesToRename)
		assert.Equal(t, 0, result.Stats.FilesUnchanged)
		assert.False(t, result.HasEntries())
	}
}

func TestScan_LimitReturnsPartialResult(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.1.txt", "b.2.txt", "c.3.txt", "d.4.txt", "e.5.txt"} {
		writeFile(t, filepath.Join(root, name))
	}

	result, err := Scan(root, ScanOptions{MaxFiles: 3}, transform.DefaultRules())
	require.NoError(t, err)

	assert.Len(t, result.Entries, 3)
	assert.Equal(t, 3, result.Stats.FilesScanned)
	assert.True(t, result.Stats.LimitReached)
	require.Len(t, result.Warnings, 1)
	assert.True(t, errors.Is(result.Warnings[0], ErrLimitReached))
}

func TestScan_LimitStopsRecursiveWalk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.1.txt"))
	writeFile(t, filepath.Join(root, "one", "b.2.txt"))
	writeFile(t, filepath.Join(root, "one", "c.3.txt"))
	writeFile(t, filepath.Join(root, "two", "d.4.txt"))

	result, err := Scan(root, ScanOptions{Recursive: true, MaxFiles: 2}, transform.DefaultRules())
	require.NoError(t, err)

	assert.Len(t, result.Entries, 2)
	assert.True(t, result.Stats.LimitReached)
	assert.Equal(t, 2, result.Stats.DirectoriesScanned)
}

func TestScan_RootErrors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	writeFile(t, file)

	_, err := Scan(filepath.Join(root, "missing"), DefaultScanOptions(), transform.DefaultRules())
	var scanErr *ScanError
	require.True(t, errors.As(err, &scanErr))
	assert.Equal(t, DirectoryNotFound, scanErr.Type)

	_, err = Scan(file, DefaultScanOptions(), transform.DefaultRules())
	require.True(t, errors.As(err, &scanErr))
	assert.Equal(t, NotADirectory, scanErr.Type)
}

func TestScan_UnreadableSubdirectoryIsNotFatal(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.b.txt"))
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "c.d.txt"))
	writeFile(t, filepath.Join(root, "open", "e.f.txt"))
	require.NoError(t, os.Chmod(locked, 0000))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	result, err := Scan(root, ScanOptions{Recursive: true}, transform.DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.ScanErrors)
	assert.Len(t, result.Entries, 2)
	require.Len(t, result.Warnings, 1)

	var scanErr *ScanError
	require.True(t, errors.As(result.Warnings[0], &scanErr))
	assert.Equal(t, PermissionDenied, scanErr.Type)
	assert.Equal(t, locked, scanErr.Path)
}

func TestScan_SymlinkedDirectoryNotDescended(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	root := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(target, "outside.file.txt"))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "link.dir")))

	result, err := Scan(root, ScanOptions{Recursive: true}, transform.DefaultRules())
	require.NoError(t, err)

	assert.Empty(t, result.Entries)
	assert.Equal(t, 0, result.Stats.FilesScanned)
	assert.Equal(t, 1, result.Stats.DirectoriesScanned)
}
