package version

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestHelperProcess isn't a real test. It's used to mock exec.CommandContext.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) < 3 || args[0] != "git" || args[1] != "describe" {
		os.Exit(0)
	}

	switch args[2] {
	case "--always":
		if os.Getenv("MOCK_GIT_COMMIT_FAIL") == "1" {
			os.Exit(1)
		}
		os.Stdout.WriteString("mock-commit-hash\n")
	case "--tags":
		if os.Getenv("MOCK_GIT_VERSION_FAIL") == "1" {
			os.Exit(1)
		}
		if os.Getenv("MOCK_GIT_VERSION_EMPTY") != "1" {
			os.Stdout.WriteString("v1.0.0\n")
		}
	}
}

func mockExecCommand(ctx context.Context, command string, args ...string) *exec.Cmd {
	cs := []string{"-test.run=TestHelperProcess", "--", command}
	cs = append(cs, args...)
	cmd := exec.CommandContext(ctx, os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	for _, name := range []string{"MOCK_GIT_COMMIT_FAIL", "MOCK_GIT_VERSION_FAIL", "MOCK_GIT_VERSION_EMPTY"} {
		if val := os.Getenv(name); val != "" {
			cmd.Env = append(cmd.Env, name+"="+val)
		}
	}
	return cmd
}

func TestInfo(t *testing.T) {
	origExecCommand := execCommand
	defer func() { execCommand = origExecCommand }()
	execCommand = mockExecCommand

	tests := []struct {
		env            map[string]string
		name           string
		expectedVer    string
		expectedCommit string
	}{
		{
			name:           "Success",
			expectedVer:    "1.0.0",
			expectedCommit: "mock-commit-hash",
		},
		{
			name:           "CommitFail",
			env:            map[string]string{"MOCK_GIT_COMMIT_FAIL": "1"},
			expectedVer:    "1.0.0",
			expectedCommit: "unknown",
		},
		{
			name:           "VersionFail",
			env:            map[string]string{"MOCK_GIT_VERSION_FAIL": "1"},
			expectedVer:    "dev",
			expectedCommit: "mock-commit-hash",
		},
		{
			name:           "VersionEmpty",
			env:            map[string]string{"MOCK_GIT_VERSION_EMPTY": "1"},
			expectedVer:    "dev",
			expectedCommit: "mock-commit-hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if got := GetVersion(); got != tt.expectedVer {
				t.Errorf("GetVersion() = %v, want %v", got, tt.expectedVer)
			}
			if got := GetCommit(); got != tt.expectedCommit {
				t.Errorf("GetCommit() = %v, want %v", got, tt.expectedCommit)
			}

			info := Info()
			if !strings.HasPrefix(info, Name+" "+tt.expectedVer) || !strings.Contains(info, tt.expectedCommit) {
				t.Errorf("Info() = %q", info)
			}
		})
	}
}

func TestLdflagsWin(t *testing.T) {
	origExecCommand := execCommand
	defer func() { execCommand = origExecCommand }()
	execCommand = func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		t.Error("git should not run when ldflags set every value")
		return mockExecCommand(ctx, name, arg...)
	}

	Reset()
	Version, Commit, Date = "2.1.0", "abc123", "2024-03-01"
	defer Reset()

	if GetVersion() != "2.1.0" || GetCommit() != "abc123" || GetDate() != "2024-03-01" {
		t.Errorf("ldflags values overwritten: %s", Info())
	}
}

func TestGetDate(t *testing.T) {
	Reset()
	if GetDate() == "" {
		t.Error("GetDate() returned empty string")
	}
}
