package grapherror

import (
	"errors"
	"strings"
	"testing"

	songerrors "github.com/teranos/songnet/errors"
)

func TestGraphError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *GraphError
		want string
	}{
		{
			name: "returns underlying error message when Err is not nil",
			err: &GraphError{
				Err:         errors.New("decode failed"),
				UserMessage: "Please try again later",
			},
			want: "decode failed",
		},
		{
			name: "returns UserMessage when Err is nil",
			err:  &GraphError{UserMessage: "Load failed"},
			want: "Load failed",
		},
		{
			name: "returns empty string when both are empty",
			err:  &GraphError{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("GraphError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryData, "Bad file", "unsupported extension %q", ".csv").
		WithSubcategory(SubcategoryDataFormat).
		WithContext("path", "songs.csv")

	if err.Category != CategoryData {
		t.Errorf("Category = %v, want %v", err.Category, CategoryData)
	}
	if !err.IsSubcategory(SubcategoryDataFormat) {
		t.Errorf("Subcategory = %q, want %q", err.Subcategory, SubcategoryDataFormat)
	}
	if err.Error() != `unsupported extension ".csv"` {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Context["path"] != "songs.csv" {
		t.Errorf("Context[path] = %v", err.Context["path"])
	}
	if err.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestNewDanglingReference(t *testing.T) {
	err := NewDanglingReference(2, EndpointTarget, "ghost")

	var wrapped error = songerrors.Wrap(err, "load dataset")

	var dangling *DanglingReferenceError
	if !songerrors.As(wrapped, &dangling) {
		t.Fatal("expected DanglingReferenceError in chain")
	}
	if dangling.LinkIndex != 2 || dangling.Endpoint != EndpointTarget || dangling.ID != "ghost" {
		t.Errorf("unexpected dangling reference %+v", dangling)
	}

	gerr, ok := As(wrapped)
	if !ok {
		t.Fatal("expected GraphError in chain")
	}
	if !gerr.IsCategory(CategoryGraph) || !gerr.IsSubcategory(SubcategoryGraphDanglingReference) {
		t.Errorf("category/subcategory = %s/%s", gerr.Category, gerr.Subcategory)
	}
	if !strings.Contains(gerr.ToUIMessage(), "ghost") {
		t.Errorf("UI message %q should name the id", gerr.ToUIMessage())
	}
}

func TestNewInvalidMode(t *testing.T) {
	err := NewInvalidMode("layout", "spiral", "force", "radial")

	if !songerrors.Is(err, songerrors.ErrInvalidMode) {
		t.Error("expected ErrInvalidMode in chain")
	}
	if !err.IsCategory(CategoryParse) {
		t.Errorf("Category = %v, want parse", err.Category)
	}
	hints := songerrors.GetAllHints(err)
	if len(hints) != 1 || !strings.Contains(hints[0], "force") {
		t.Errorf("hints = %v", hints)
	}
}

func TestAs_NotGraphError(t *testing.T) {
	if _, ok := As(errors.New("plain")); ok {
		t.Error("plain error should not match")
	}
	if _, ok := As(nil); ok {
		t.Error("nil should not match")
	}
}
