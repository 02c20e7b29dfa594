package minecraft

import "testing"

func TestRules_Allowed(t *testing.T) {
	type args struct {
		os   string
		arch string
	}
	tests := []struct {
		name  string
		rules Rules
		args  args
		want  bool
	}{
		{
			name:  "no rules",
			rules: nil,
			args:  args{os: "linux", arch: "x86"},
			want:  true,
		},
		{
			name:  "allow empty",
			rules: Rules{{Action: "allow"}},
			args:  args{os: "linux", arch: "x86"},
			want:  true,
		},
		{
			name:  "allow os",
			rules: Rules{{Action: "allow", OS: OS{Name: "linux"}}},
			args:  args{os: "linux", arch: "x86"},
			want:  true,
		},
		{
			name:  "allow other os",
			rules: Rules{{Action: "allow", OS: OS{Name: "osx"}}},
			args:  args{os: "linux", arch: "x86"},
			want:  false,
		},
		{
			name:  "allow arch",
			rules: Rules{{Action: "allow", OS: OS{Arch: "x86"}}},
			args:  args{os: "linux", arch: "x86"},
			want:  true,
		},
		{
			name:  "allow os arch",
			rules: Rules{{Action: "allow", OS: OS{Name: "linux", Arch: "x86"}}},
			args:  args{os: "linux", arch: "x86"},
			want:  true,
		},
		{
			name:  "disallow empty",
			rules: Rules{{Action: "disallow"}},
			args:  args{os: "linux", arch: "x86"},
			want:  false,
		},
		{
			name:  "allow all but osx on linux",
			rules: Rules{{Action: "allow"}, {Action: "disallow", OS: OS{Name: "osx"}}},
			args:  args{os: "linux", arch: "x64"},
			want:  true,
		},
		{
			name:  "allow all but osx on osx",
			rules: Rules{{Action: "allow"}, {Action: "disallow", OS: OS{Name: "osx"}}},
			args:  args{os: "darwin", arch: "arm64"},
			want:  false,
		},
		{
			name:  "disallow arch",
			rules: Rules{{Action: "allow"}, {Action: "disallow", OS: OS{Arch: "x86"}}},
			args:  args{os: "linux", arch: "386"},
			want:  false,
		},
		{
			name:  "os version regex",
			rules: Rules{{Action: "allow", OS: OS{Name: "linux", Version: "^5\\."}}},
			args:  args{os: "linux", arch: "x64"},
			want:  true,
		},
		{
			name:  "feature not enabled",
			rules: Rules{{Action: "allow", Features: map[string]bool{"is_demo_user": true}}},
			args:  args{os: "linux", arch: "x64"},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnvironment(tt.args.os, tt.args.arch)
			env.OSVersion = "5.15.0"
			if got := tt.rules.Allowed(env); got != tt.want {
				t.Errorf("Rules.Allowed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRules_Features(t *testing.T) {
	rules := Rules{{Action: "allow", Features: map[string]bool{"has_custom_resolution": true}}}
	env := NewEnvironment("linux", "amd64")

	if rules.Allowed(env) {
		t.Fatal("feature rule should not apply without the feature")
	}
	if !rules.Allowed(env.WithFeature("has_custom_resolution", true)) {
		t.Fatal("feature rule should apply with the feature")
	}
	if len(env.Features) != 0 {
		t.Fatal("WithFeature should not modify the original environment")
	}
}
