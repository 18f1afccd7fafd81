package models

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestRunResult_Record(t *testing.T) {
	tests := []struct {
		name          string
		outcomes      []Outcome
		wantConverted int
		wantCopied    int
		wantFailed    int
		wantOK        bool
	}{
		{
			name:          "mixed outcomes",
			outcomes:      []Outcome{OutcomeConverted, OutcomeCopied, OutcomeFailed, OutcomeConverted},
			wantConverted: 2,
			wantCopied:    1,
			wantFailed:    1,
			wantOK:        false,
		},
		{
			name:          "all succeeded",
			outcomes:      []Outcome{OutcomeConverted, OutcomeCopied},
			wantConverted: 1,
			wantCopied:    1,
			wantOK:        true,
		},
		{
			name:     "empty run",
			outcomes: nil,
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &RunResult{Total: len(tt.outcomes)}
			for i, o := range tt.outcomes {
				fr := FileResult{Task: FileTask{RelPath: filepath.Join("dir", string(rune('a'+i))+".csv")}, Outcome: o}
				if o == OutcomeFailed {
					fr.Err = errors.New("boom")
				}
				r.Record(fr)
			}

			if r.Converted != tt.wantConverted {
				t.Errorf("Converted = %d, want %d", r.Converted, tt.wantConverted)
			}
			if r.Copied != tt.wantCopied {
				t.Errorf("Copied = %d, want %d", r.Copied, tt.wantCopied)
			}
			if r.Failed != tt.wantFailed {
				t.Errorf("Failed = %d, want %d", r.Failed, tt.wantFailed)
			}
			if len(r.FailedFiles) != tt.wantFailed {
				t.Errorf("len(FailedFiles) = %d, want %d", len(r.FailedFiles), tt.wantFailed)
			}
			if len(r.Results) != len(tt.outcomes) {
				t.Errorf("len(Results) = %d, want %d", len(r.Results), len(tt.outcomes))
			}
			if r.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", r.OK(), tt.wantOK)
			}
		})
	}
}

func TestRunResult_ScanErrorsMakeRunPartial(t *testing.T) {
	r := &RunResult{Total: 1}
	r.Record(FileResult{Outcome: OutcomeCopied})
	r.ScanErrors = append(r.ScanErrors, errors.New("permission denied"))

	if r.Succeeded() != 1 {
		t.Errorf("Succeeded() = %d, want 1", r.Succeeded())
	}
	if r.OK() {
		t.Error("OK() should be false when the walk reported errors")
	}
}

func TestFileTask_DestPath(t *testing.T) {
	task := FileTask{SourcePath: "/src/sub/b.csv", RelPath: filepath.Join("sub", "b.csv")}
	got := task.DestPath("/dst")
	want := filepath.Join("/dst", "sub", "b.csv")
	if got != want {
		t.Errorf("DestPath() = %q, want %q", got, want)
	}
}

func TestOutcome_Succeeded(t *testing.T) {
	if !OutcomeConverted.Succeeded() || !OutcomeCopied.Succeeded() {
		t.Error("converted and copied should count as success")
	}
	if OutcomeFailed.Succeeded() {
		t.Error("failed should not count as success")
	}
}
