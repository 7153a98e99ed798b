package outcome

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_PendingBecomesSkipped(t *testing.T) {
	rec := Build(RawEvent{
		ID:              "ssh-01",
		Status:          "pending",
		FullDescription: "File /etc/ssh/sshd_config should be owned by root",
		PendingMessage:  "Can't find file /etc/ssh/sshd_config",
		DescribedClass:  "File",
	})

	assert.Equal(t, StatusSkipped, rec.Status)
	assert.Equal(t, "Can't find file /etc/ssh/sshd_config", rec.SkipMessage)
	assert.Equal(t, "File", rec.Resource)
	assert.Equal(t, "File /etc/ssh/sshd_config should be owned by root", rec.Description)
}

func TestBuild_DescriptionArgsUseGroupDescription(t *testing.T) {
	rec := Build(RawEvent{
		ID:               "pkg-01",
		Status:           "pending",
		FullDescription:  "Package telnetd not installed on this platform",
		GroupDescription: "Package telnetd",
		DescriptionArgs:  []string{"not installed on this platform"},
		PendingMessage:   "not installed on this platform",
	})

	assert.Equal(t, "Package telnetd", rec.Description)
	assert.Equal(t, "not installed on this platform", rec.SkipMessage)
}

func TestBuild_CapturesException(t *testing.T) {
	runTime := 0.0042
	started := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	backtrace := []string{"controls/ssh.rb:12", "lib/runner.rb:88"}
	rec := Build(RawEvent{
		ID:              "ssh-02",
		ProfileID:       "ssh-baseline",
		Status:          "failed",
		FullDescription: "SSH Configuration Protocol should eq 2",
		Exception: &RawException{
			Class:     "ExpectationNotMetError",
			Message:   "expected: \"2\"\n     got: \"1\"",
			Backtrace: backtrace,
		},
		RunTime:   &runTime,
		StartedAt: &started,
	})

	require.Equal(t, StatusFailed, rec.Status)
	assert.Equal(t, "ssh-baseline", rec.ProfileID)
	assert.Equal(t, "ExpectationNotMetError", rec.Exception)
	assert.Equal(t, "expected: \"2\"\n     got: \"1\"", rec.Message)
	assert.Equal(t, backtrace, rec.Backtrace)
	require.NotNil(t, rec.RunTime)
	assert.InDelta(t, 0.0042, *rec.RunTime, 1e-12)
	require.NotNil(t, rec.StartTime)
	assert.True(t, started.Equal(*rec.StartTime))

	backtrace[0] = "mutated"
	runTime = 99
	assert.Equal(t, "controls/ssh.rb:12", rec.Backtrace[0], "record must not alias the event backtrace")
	assert.InDelta(t, 0.0042, *rec.RunTime, 1e-12, "record must not alias the event run time")
}

func TestBuild_MissingOptionalFieldsStayAbsent(t *testing.T) {
	rec := Build(RawEvent{ID: "x", Status: "passed", FullDescription: "ok"})

	assert.Equal(t, StatusPassed, rec.Status)
	assert.Empty(t, rec.Message)
	assert.Empty(t, rec.Exception)
	assert.Nil(t, rec.Backtrace)
	assert.Nil(t, rec.RunTime)
	assert.Nil(t, rec.StartTime)
}

func TestBuild_UnrecognizedStatusIsUnknown(t *testing.T) {
	for _, s := range []string{"", "errored", "weird"} {
		if got := Build(RawEvent{ID: "x", Status: s}).Status; got != StatusUnknown {
			t.Fatalf("status %q: expected unknown, got %s", s, got)
		}
	}
	if got := Build(RawEvent{ID: "x", Status: " Failed "}).Status; got != StatusFailed {
		t.Fatalf("expected case-insensitive match, got %s", got)
	}
}

func TestResultDisplayMessage(t *testing.T) {
	assert.Equal(t, "boom", Result{Message: "boom", SkipMessage: "skip", Description: "d"}.DisplayMessage())
	assert.Equal(t, "skip", Result{SkipMessage: "skip", Description: "d"}.DisplayMessage())
	assert.Equal(t, "d", Result{Description: "d"}.DisplayMessage())
}
