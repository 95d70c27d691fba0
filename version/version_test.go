package version

import "testing"

func TestGetUsesLinkerValues(t *testing.T) {
	v, c, b := Version, GitCommit, BuildTime
	defer func() { Version, GitCommit, BuildTime = v, c, b }()

	Version, GitCommit, BuildTime = "1.2.0", "abcdef0123456", "2026-01-15T10:30:00Z"
	info := Get()
	if info.Version != "1.2.0" || info.GitCommit != "abcdef0" || info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("Get() = %+v", info)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
