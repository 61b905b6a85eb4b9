package config

import (
	"reflect"
	"testing"
	"time"
)

func TestHelpers_FromEnvOrFlag(t *testing.T) {
	const key = "CFG_STR"
	tests := []struct {
		name   string
		env    string
		flag   string
		def    string
		expect string
	}{
		{
			name:   "env takes precedence over flag",
			env:    "  env-val  ",
			flag:   "flag-val",
			def:    "def",
			expect: "env-val",
		},
		{
			name:   "flag used when env empty",
			env:    "",
			flag:   "  flag-val  ",
			def:    "def",
			expect: "flag-val",
		},
		{
			name:   "default used when both empty",
			env:    "   ",
			flag:   "   ",
			def:    "def",
			expect: "def",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(key, tc.env)
			got := FromEnvOrFlag(key, tc.flag, tc.def)
			if got != tc.expect {
				t.Fatalf("got %q, want %q", got, tc.expect)
			}
		})
	}
}

func TestHelpers_FromEnvOrFlagBool(t *testing.T) {
	const key = "CFG_BOOL"
	tests := []struct {
		name   string
		env    string
		flag   bool
		def    bool
		expect bool
	}{
		{
			name:   "env true (various truthy) wins over flag false",
			env:    "TrUe",
			flag:   false,
			def:    false,
			expect: true,
		},
		{
			name:   "env false wins over flag true",
			env:    "0",
			flag:   true,
			def:    true,
			expect: false,
		},
		{
			name:   "env invalid -> falls back to def (but env has precedence path)",
			env:    "maybe",
			flag:   false,
			def:    true,
			expect: true,
		},
		{
			name:   "no env -> flag true used",
			env:    "",
			flag:   true,
			def:    false,
			expect: true,
		},
		{
			name:   "no env -> flag false -> default",
			env:    "",
			flag:   false,
			def:    true,
			expect: true,
		},
		{
			name:   "no env -> flag false -> default false",
			env:    "",
			flag:   false,
			def:    false,
			expect: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(key, tc.env)
			got := FromEnvOrFlagBool(key, tc.flag, tc.def)
			if got != tc.expect {
				t.Fatalf("got %v, want %v", got, tc.expect)
			}
		})
	}
}


func TestHelpers_FromEnvOrFlagInt(t *testing.T) {
	const key = "CFG_INT"
	tests := []struct {
		name   string
		env    string
		flag   int
		def    int
		want   int
		wantOK bool
	}{
		{"env wins", "7", 3, 5, 7, true},
		{"env bad reported", "x", 3, 5, 5, false},
		{"flag when env empty", "", 3, 5, 3, true},
		{"default when flag is sentinel", "", 0, 5, 5, true},
		{"env zero passes through for validation", "0", 3, 5, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(key, tc.env)
			got, ok := FromEnvOrFlagInt(key, tc.flag, 0, tc.def)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("got (%d,%v), want (%d,%v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestHelpers_FromEnvOrFlagDuration(t *testing.T) {
	const key = "CFG_DUR"
	tests := []struct {
		name string
		env  string
		flag time.Duration
		def  time.Duration
		want time.Duration
	}{
		{"env go syntax", "250ms", time.Second, 2 * time.Second, 250 * time.Millisecond},
		{"env seconds", "3", time.Second, 2 * time.Second, 3 * time.Second},
		{"env garbage -> default", "soon", time.Second, 2 * time.Second, 2 * time.Second},
		{"flag when env empty", "", time.Second, 2 * time.Second, time.Second},
		{"default when flag zero", "", 0, 2 * time.Second, 2 * time.Second},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(key, tc.env)
			if got := FromEnvOrFlagDuration(key, tc.flag, tc.def); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHelpers_FromEnvOrFlagList(t *testing.T) {
	const key = "CFG_LIST"
	def := []string{"a"}

	t.Setenv(key, "x, y")
	if got := FromEnvOrFlagList(key, "f", def); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("env: got %v", got)
	}
	t.Setenv(key, "")
	if got := FromEnvOrFlagList(key, "f,g", def); !reflect.DeepEqual(got, []string{"f", "g"}) {
		t.Fatalf("flag: got %v", got)
	}
	got := FromEnvOrFlagList(key, "", def)
	if !reflect.DeepEqual(got, def) {
		t.Fatalf("default: got %v", got)
	}
	got[0] = "mutated"
	if def[0] != "a" {
		t.Fatal("default slice must not be aliased")
	}
}
