package pkg

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "minilisp"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestDescription(t *testing.T) {
	expected := "Interpreter for a small S-expression language"
	if Description != expected {
		t.Errorf("Expected Description to be %q, got %q", expected, Description)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from VERSION file, so it should not be empty.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}

	if Version == "" {
		t.Error("Expected Version to be non-empty")
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Error("Expected Author to have at least one entry")
	}

	// Test if a known author is present
	if len(Author) > 0 {
		expectedName := "ardnew"
		expectedEmail := "andrew@ardnew.com"

		if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
			return a.Name == expectedName && a.Email == expectedEmail
		}) {
			t.Errorf("Expected Author to contain %q, %q", expectedName, expectedEmail)
		}
	}
}

func TestAuthorStruct(t *testing.T) {
	// Test that Author slice has the expected structure
	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestErrorWrap(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		target  error
		want    bool
		wantMsg string
	}{
		{
			name:    "sentinel with cause",
			err:     ErrReadInput.Wrap(fs.ErrClosed),
			target:  ErrReadInput,
			want:    true,
			wantMsg: "failed to read input: file already closed",
		},
		{
			name:    "cause is reachable",
			err:     ErrReadInput.Wrap(fs.ErrClosed),
			target:  fs.ErrClosed,
			want:    true,
			wantMsg: "failed to read input: file already closed",
		},
		{
			name:    "formatted detail",
			err:     ErrSourceNotFound.Wrapf("%s", "lib.lsp"),
			target:  ErrSourceNotFound,
			want:    true,
			wantMsg: "source not found: lib.lsp",
		},
		{
			name:    "different sentinel",
			err:     ErrWriteConfig.Wrap(ErrFileExists),
			target:  ErrReadInput,
			want:    false,
			wantMsg: "write configuration file: file exists (use --force to overwrite)",
		},
		{
			name:    "nested sentinel",
			err:     ErrWriteConfig.Wrap(ErrFileExists),
			target:  ErrFileExists,
			want:    true,
			wantMsg: "write configuration file: file exists (use --force to overwrite)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}

			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestErrorWrapDoesNotModifySentinel(t *testing.T) {
	before := ErrReadInput.Error()

	_ = ErrReadInput.Wrap(fs.ErrNotExist)
	_ = ErrReadInput.Wrapf("%d", 1)

	if after := ErrReadInput.Error(); after != before {
		t.Errorf("sentinel changed from %q to %q", before, after)
	}
}
