package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	allowed := []string{"-c", "--config"}
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"separate value", []string{"-c", "conf.json", "-a", ":5000"}, []string{"-c", "conf.json"}},
		{"equals form", []string{"--config=alt.json", "-a", ":5000"}, []string{"--config=alt.json"}},
		{"order preserved", []string{"--config=1.json", "-c", "2.json", "-x", "1"}, []string{"--config=1.json", "-c", "2.json"}},
		{"unknown flags dropped", []string{"-x", "1", "--y=2", "positional"}, []string{}},
		{"trailing flag without value", []string{"-c"}, []string{"-c"}},
		{"next dash token is not a value", []string{"-c", "-d"}, []string{"-c"}},
		{"dashes inside equals value", []string{"--config=--odd.json"}, []string{"--config=--odd.json"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "/etc/cine.json"}, "/etc/cine.json"},
		{"long", []string{"-config", "/etc/cine.json"}, "/etc/cine.json"},
		{"double dash equals", []string{"--config=/tmp/x.json"}, "/tmp/x.json"},
		{"mixed with other flags", []string{"-a", ":8080", "-c", "a.json", "-d", "postgres://"}, "a.json"},
		{"last wins", []string{"-c", "1.json", "-config", "2.json"}, "2.json"},
		{"absent", []string{"-x", "1"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}

func TestStringFlag_EnvFile(t *testing.T) {
	args := []string{"-a", ":5000", "-env-file", "local.env"}
	assert.Equal(t, "local.env", StringFlag(args, "env-file"))
}
