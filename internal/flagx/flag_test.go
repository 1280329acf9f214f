package flagx

import (
	"reflect"
	"testing"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "keeps allowed flag with separate value",
			args:    []string{"-a", ":5000", "-x", "ignored"},
			allowed: []string{"-a"},
			want:    []string{"-a", ":5000"},
		},
		{
			name:    "keeps combined form",
			args:    []string{"--config=conf.json", "-d", "dsn"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "drops everything when nothing allowed",
			args:    []string{"-a", ":5000"},
			allowed: []string{"-z"},
			want:    []string{},
		},
		{
			name:    "flag followed by another flag keeps only the flag",
			args:    []string{"-a", "-d", "dsn"},
			allowed: []string{"-a"},
			want:    []string{"-a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}
