package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleYAML = `profiles:
  - name: ssh-baseline
    title: SSH Baseline
    version: 2.1.0
    controls:
      - id: ssh-01
        title: Use protocol 2
        impact: 0.9
      - id: ssh-02
        impact: 0.5
      - id: "(generated from ssh_spec.rb:4 1a2b3c)"
  - name: empty-profile
`

func TestParse_Valid(t *testing.T) {
	profiles, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	ssh := profiles[0]
	if ssh.Title != "SSH Baseline" || ssh.Version != "2.1.0" {
		t.Fatalf("unexpected profile: %+v", ssh)
	}
	if len(ssh.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(ssh.Groups))
	}
	g := ssh.Group("ssh-01")
	if g == nil || g.Impact == nil || *g.Impact != 0.9 {
		t.Fatalf("unexpected group: %+v", g)
	}
	if g.ProfileID != "ssh-baseline" {
		t.Fatalf("expected ProfileID to be stamped, got %q", g.ProfileID)
	}
	if !ssh.Groups[2].Anonymous() || ssh.Groups[0].Anonymous() {
		t.Fatalf("anonymous detection wrong")
	}
	if ssh.Group("missing") != nil {
		t.Fatalf("expected nil for unknown group")
	}
}

func TestParse_JSONIsAccepted(t *testing.T) {
	profiles, err := Parse([]byte(`{"profiles":[{"name":"p","controls":[{"id":"c","impact":0.3}]}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profiles[0].Groups[0].ID != "c" {
		t.Fatalf("unexpected groups: %+v", profiles[0].Groups)
	}
}

func TestParse_ValidationProblems(t *testing.T) {
	bad := `profiles:
  - name: p
    controls:
      - id: a
        impact: 1.5
      - id: a
      - title: no id
  - name: p
`
	_, err := Parse([]byte(bad))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{
		`p.controls[0]="a" impact 1.5 is outside [0,1]`,
		`p.controls[1]="a" is duplicated`,
		`p.controls[2].id is required`,
		`profile "p" is duplicated`,
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	profiles, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
}

func TestLoad_RequiresPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoad_WrapsParseErrorsWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("profiles: [\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error mentioning path, got %v", err)
	}
}
