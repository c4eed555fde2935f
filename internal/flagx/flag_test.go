package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-c", "conf.json", "-a", "localhost"},
			allowed: []string{"c", "config"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "long flag with equals",
			args:    []string{"--config=alt.json", "-a", "localhost"},
			allowed: []string{"c", "config"},
			want:    []string{"--config=alt.json"},
		},
		{
			name:    "dash count does not matter",
			args:    []string{"--expiry", "20s", "-renew", "10s"},
			allowed: []string{"-expiry", "--renew"},
			want:    []string{"--expiry", "20s", "-renew", "10s"},
		},
		{
			name:    "both forms present, order preserved",
			args:    []string{"--config=first.json", "-c", "second.json", "-x", "1"},
			allowed: []string{"c", "config"},
			want:    []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name:    "unknown flags and positionals ignored",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"c", "config"},
			want:    []string{},
		},
		{
			name:    "flag without value at end is kept",
			args:    []string{"-c"},
			allowed: []string{"c"},
			want:    []string{"-c"},
		},
		{
			name:    "flag followed by another flag",
			args:    []string{"-auto-renew", "-d", ":8088"},
			allowed: []string{"auto-renew", "d"},
			want:    []string{"-auto-renew", "-d", ":8088"},
		},
		{
			name:    "equals value that looks like a flag",
			args:    []string{"--config=--weird.json"},
			allowed: []string{"config"},
			want:    []string{"--config=--weird.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFileFlag([]string{"-c", "a.json", "-u", "helper"}))
	assert.Equal(t, "b.json", ConfigFileFlag([]string{"-u", "helper", "--config=b.json"}))
	assert.Equal(t, "", ConfigFileFlag([]string{"-u", "helper"}))
	assert.Equal(t, "", ConfigFileFlag(nil))
}
