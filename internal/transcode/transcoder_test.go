package transcode

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harrison/csvconv/internal/detect"
	"github.com/harrison/csvconv/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, root, rel string, data []byte) models.FileTask {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return models.FileTask{SourcePath: path, RelPath: rel}
}

func TestTranscoder_Decide(t *testing.T) {
	csv := New(models.CSVProfile(), DecodeLossy)
	cfg := New(models.ConfigProfile(), DecodeLossy)

	tests := []struct {
		name string
		tc   *Transcoder
		g    detect.Guess
		want models.Outcome
	}{
		{"csv converts GB-18030", csv, detect.Guess{Label: "GB-18030"}, models.OutcomeConverted},
		{"csv copies utf-8", csv, detect.Guess{Label: "UTF-8"}, models.OutcomeCopied},
		{"csv copies indeterminate", csv, detect.Guess{}, models.OutcomeCopied},
		{"config converts UTF-8", cfg, detect.Guess{Label: "UTF-8"}, models.OutcomeConverted},
		{"config copies gb2312", cfg, detect.Guess{Label: "GB2312"}, models.OutcomeCopied},
		{"config copies ascii", cfg, detect.Guess{Label: "ascii"}, models.OutcomeCopied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.tc.Decide(tt.g)
			assert.Equal(t, tt.want, d.Outcome)
			if d.Outcome == models.OutcomeConverted {
				assert.Equal(t, tt.g.Label, d.From)
				assert.Equal(t, tt.tc.Profile.Target, d.To)
			}
		})
	}
}

func TestTranscoder_CanConvert(t *testing.T) {
	csv := New(models.CSVProfile(), DecodeLossy)
	legacy := gbk(t, sampleText)

	assert.True(t, csv.CanConvert("GB-18030", legacy))
	assert.True(t, csv.CanConvert("gbk", legacy))
	assert.False(t, csv.CanConvert("EUC-KR", legacy), "not in the profile")
	assert.False(t, csv.CanConvert("gbk", append(legacy, 0xFF)), "invalid byte even in lossy mode")

	cfg := New(models.ConfigProfile(), DecodeLossy)
	assert.True(t, cfg.CanConvert("UTF-8", []byte(sampleText)))
	assert.False(t, cfg.CanConvert("UTF-8", legacy))
}

func TestTranscoder_ProcessConverts(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	data := gbk(t, sampleText)
	task := writeSource(t, src, filepath.Join("sub", "monster.csv"), data)

	tc := New(models.CSVProfile(), DecodeLossy)
	res := tc.Process(task, dst, detect.Guess{Label: "GB2312", Confidence: 99}, data)

	require.NoError(t, res.Err)
	assert.Equal(t, models.OutcomeConverted, res.Outcome)
	assert.Equal(t, filepath.Join(dst, "sub", "monster.csv"), res.DestPath)
	assert.Equal(t, "GB2312", res.Detected)
	assert.Equal(t, 99, res.Confidence)
	assert.Equal(t, "utf-8", res.Target)

	got, err := os.ReadFile(res.DestPath)
	require.NoError(t, err)
	assert.Equal(t, sampleText, string(got))
}

func TestTranscoder_ProcessCopiesVerbatim(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	data := []byte(sampleText)
	task := writeSource(t, src, "config.csv", data)

	require.NoError(t, os.Chmod(task.SourcePath, 0640))
	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(task.SourcePath, mtime, mtime))

	tc := New(models.CSVProfile(), DecodeLossy)
	res := tc.Process(task, dst, detect.Guess{Label: "UTF-8", Confidence: 100}, data)

	require.NoError(t, res.Err)
	assert.Equal(t, models.OutcomeCopied, res.Outcome)
	assert.Empty(t, res.Target)

	got, err := os.ReadFile(res.DestPath)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	info, err := os.Stat(res.DestPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime), "mtime %v, want %v", info.ModTime(), mtime)
}

func TestTranscoder_ProcessStrictDecodeFails(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	data := append(gbk(t, "编号"), 0xFF)
	task := writeSource(t, src, "broken.csv", data)

	strict := New(models.CSVProfile(), DecodeStrict)
	res := strict.Process(task, dst, detect.Guess{Label: "gbk"}, data)
	assert.Equal(t, models.OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrDecode)
	assert.NoFileExists(t, res.DestPath)

	lossy := New(models.CSVProfile(), DecodeLossy)
	res = lossy.Process(task, dst, detect.Guess{Label: "gbk"}, data)
	require.NoError(t, res.Err)
	got, err := os.ReadFile(res.DestPath)
	require.NoError(t, err)
	assert.Equal(t, "编号", string(got))
}

func TestTranscoder_ProcessEncodeFailure(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	data := []byte("Id,Icon\n1,😀\n")
	task := writeSource(t, src, "emoji.csv", data)

	tc := New(models.ConfigProfile(), DecodeLossy)
	res := tc.Process(task, dst, detect.Guess{Label: "utf-8"}, data)
	assert.Equal(t, models.OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrEncode)
	assert.NoFileExists(t, res.DestPath)
}

func TestTranscoder_ProcessUnsupportedLabel(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	task := writeSource(t, src, "a.csv", []byte("x"))

	profile := models.Profile{Name: "odd", Convertible: []string{"x-made-up"}, Target: "utf-8"}
	res := New(profile, DecodeLossy).Process(task, dst, detect.Guess{Label: "X-MADE-UP"}, []byte("x"))
	assert.Equal(t, models.OutcomeFailed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrUnsupportedEncoding)
}

func TestTranscoder_ProcessWriteFailure(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	task := writeSource(t, src, filepath.Join("sub", "a.csv"), []byte(sampleText))

	// A regular file where the destination directory should be
	require.NoError(t, os.WriteFile(filepath.Join(dst, "sub"), []byte("blocker"), 0644))

	tc := New(models.ConfigProfile(), DecodeLossy)
	for _, g := range []detect.Guess{{Label: "utf-8"}, {Label: "ascii"}} {
		res := tc.Process(task, dst, g, []byte(sampleText))
		assert.Equal(t, models.OutcomeFailed, res.Outcome, g.Label)
		assert.ErrorIs(t, res.Err, ErrFileWrite, g.Label)
	}
}

func TestTranscoder_DryRunWritesNothing(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	data := gbk(t, sampleText)
	task := writeSource(t, src, "a.csv", data)

	tc := New(models.CSVProfile(), DecodeLossy)
	tc.DryRun = true

	res := tc.Process(task, dst, detect.Guess{Label: "gb2312"}, data)
	assert.Equal(t, models.OutcomeConverted, res.Outcome)
	res = tc.Process(task, dst, detect.Guess{}, data)
	assert.Equal(t, models.OutcomeCopied, res.Outcome)

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
