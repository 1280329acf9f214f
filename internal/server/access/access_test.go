package access

import (
	"testing"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

func TestCanRead(t *testing.T) {
	tests := []struct {
		name   string
		file   models.File
		userID string
		want   bool
	}{
		{"public file, anonymous", models.File{UserID: "u1", IsPublic: true}, "", true},
		{"public file, stranger", models.File{UserID: "u1", IsPublic: true}, "u2", true},
		{"public file, owner", models.File{UserID: "u1", IsPublic: true}, "u1", true},
		{"private file, anonymous", models.File{UserID: "u1"}, "", false},
		{"private file, stranger", models.File{UserID: "u1"}, "u2", false},
		{"private file, owner", models.File{UserID: "u1"}, "u1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanRead(&tt.file, tt.userID); got != tt.want {
				t.Fatalf("CanRead() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanWrite(t *testing.T) {
	tests := []struct {
		name   string
		file   models.File
		userID string
		want   bool
	}{
		{"owner", models.File{UserID: "u1"}, "u1", true},
		{"stranger", models.File{UserID: "u1"}, "u2", false},
		{"anonymous", models.File{UserID: "u1"}, "", false},
		{"public never grants write", models.File{UserID: "u1", IsPublic: true}, "u2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanWrite(&tt.file, tt.userID); got != tt.want {
				t.Fatalf("CanWrite() = %v, want %v", got, tt.want)
			}
		})
	}
}
