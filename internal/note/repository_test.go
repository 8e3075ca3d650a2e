package note_test

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/note/internal/fs"
	"github.com/calvinalkan/note/internal/note"
)

func newRepo(t *testing.T) *note.Repository {
	t.Helper()

	repo := note.New(filepath.Join(t.TempDir(), ".notes"))

	_, err := repo.Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	return repo
}

// run executes fn in a session and fails the test on error.
func run(t *testing.T, repo *note.Repository, fn func(s *note.Session) error) {
	t.Helper()

	err := repo.WithSession(fn)
	if err != nil {
		t.Fatalf("WithSession: %v", err)
	}
}

func addNote(t *testing.T, repo *note.Repository, content string, tags []string, status string) {
	t.Helper()

	run(t, repo, func(s *note.Session) error {
		_, err := s.AddNote(content, tags, status)

		return err
	})
}

func createStatus(t *testing.T, repo *note.Repository, name string, priority int) {
	t.Helper()

	run(t, repo, func(s *note.Session) error {
		return s.CreateStatus(name, note.StatusChange{Priority: &priority})
	})
}

// listed is the (position, content) view of a listing.
type listed struct {
	Position int
	Content  string
}

func listNotes(t *testing.T, repo *note.Repository, filter ...string) []listed {
	t.Helper()

	var got []listed

	run(t, repo, func(s *note.Session) error {
		entries, err := s.ListNotes(filter)
		if err != nil {
			return err
		}

		for _, e := range entries {
			got = append(got, listed{Position: e.Position, Content: e.Note.Content})
		}

		return nil
	})

	return got
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func ptr[T any](v T) *T {
	return &v
}

func Test_Init_Creates_Empty_Repository(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".notes")
	repo := note.New(path)

	abs, err := repo.Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if abs != path {
		t.Errorf("Init path=%q, want=%q", abs, path)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(readFile(t, path)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]any{
		"notes":  []any{},
		"config": map[string]any{"statuses": map[string]any{}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func Test_Init_Twice_Fails_And_Keeps_First_Repository(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	addNote(t, repo, "keep me", nil, "")

	before := readFile(t, repo.Path())

	_, err := repo.Init()
	if !errors.Is(err, note.ErrAlreadyInitialized) {
		t.Fatalf("err=%v, want=%v", err, note.ErrAlreadyInitialized)
	}

	if !strings.Contains(err.Error(), repo.Path()) {
		t.Errorf("error %q should name the path %q", err, repo.Path())
	}

	if after := readFile(t, repo.Path()); after != before {
		t.Errorf("repository changed:\nbefore: %s\nafter: %s", before, after)
	}
}

func Test_Add_Notes_Without_Status_Keeps_Insertion_Order(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	addNote(t, repo, "A", []string{"x"}, "")
	addNote(t, repo, "B", []string{"y"}, "")

	want := []listed{{1, "A"}, {2, "B"}}
	if diff := cmp.Diff(want, listNotes(t, repo)); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}

func Test_Add_Note_With_Higher_Priority_Status_Sorts_First(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	createStatus(t, repo, "DONE", 5)
	addNote(t, repo, "X", nil, "DONE")
	addNote(t, repo, "Y", nil, "")

	want := []listed{{1, "X"}, {2, "Y"}}
	if diff := cmp.Diff(want, listNotes(t, repo)); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}

func Test_Add_Note_Returns_Sorted_Position(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	createStatus(t, repo, "URGENT", 3)
	addNote(t, repo, "plain", nil, "")

	run(t, repo, func(s *note.Session) error {
		pos, err := s.AddNote("urgent", nil, "URGENT")
		if err != nil {
			return err
		}

		if pos != 1 {
			t.Errorf("urgent position=%d, want=1", pos)
		}

		pos, err = s.AddNote("plain 2", nil, "")
		if err != nil {
			return err
		}

		if pos != 3 {
			t.Errorf("plain 2 position=%d, want=3", pos)
		}

		return nil
	})
}

func Test_Sort_Is_Stable_And_Groups_Negative_Priorities_Last(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	createStatus(t, repo, "HIGH", 2)
	createStatus(t, repo, "ZERO", 0)
	createStatus(t, repo, "LOW", -1)

	addNote(t, repo, "low 1", nil, "LOW")
	addNote(t, repo, "none 1", nil, "")
	addNote(t, repo, "high 1", nil, "HIGH")
	addNote(t, repo, "zero 1", nil, "ZERO")
	addNote(t, repo, "none 2", nil, "")
	addNote(t, repo, "high 2", nil, "HIGH")
	addNote(t, repo, "low 2", nil, "LOW")

	want := []listed{
		{1, "high 1"},
		{2, "high 2"},
		{3, "none 1"},
		{4, "zero 1"},
		{5, "none 2"},
		{6, "low 1"},
		{7, "low 2"},
	}

	if diff := cmp.Diff(want, listNotes(t, repo)); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}

func Test_Sort_Handles_Extreme_Priorities(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	createStatus(t, repo, "MIN", math.MinInt)
	createStatus(t, repo, "MAX", math.MaxInt)

	var positions []int

	for _, n := range []struct{ content, status string }{
		{"plain", ""},
		{"min", "MIN"},
		{"max", "MAX"},
	} {
		run(t, repo, func(s *note.Session) error {
			position, err := s.AddNote(n.content, nil, n.status)
			positions = append(positions, position)

			return err
		})
	}

	if diff := cmp.Diff([]int{1, 2, 1}, positions); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}

	want := []listed{
		{1, "max"},
		{2, "plain"},
		{3, "min"},
	}

	if diff := cmp.Diff(want, listNotes(t, repo)); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}

func Test_Add_Note_Persists_Fields(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	createStatus(t, repo, "TODO", 1)
	addNote(t, repo, "tagged", []string{"awesome", "cool"}, "TODO")
	addNote(t, repo, "bare", nil, "")

	var doc struct {
		Notes []map[string]any `json:"notes"`
	}

	if err := json.Unmarshal([]byte(readFile(t, repo.Path())), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []map[string]any{
		{"content": "tagged", "tags": []any{"awesome", "cool"}, "status": "TODO"},
		{"content": "bare", "tags": nil, "status": nil},
	}

	if diff := cmp.Diff(want, doc.Notes); diff != "" {
		t.Errorf("persisted notes mismatch (-want +got):\n%s", diff)
	}
}

func Test_Add_Note_Validation_Adds_Nothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		tags    []string
		status  string
		wantErr error
	}{
		{name: "invalid tag", content: "Z", tags: []string{"bad tag!"}, wantErr: note.ErrInvalidTagFormat},
		{name: "empty tag", content: "Z", tags: []string{"ok", ""}, wantErr: note.ErrInvalidTagFormat},
		{name: "unknown status", content: "Z", status: "NOPE", wantErr: note.ErrUnknownStatus},
		{name: "empty content", content: "  ", wantErr: note.ErrContentRequired},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := newRepo(t)
			addNote(t, repo, "existing", nil, "")

			err := repo.WithSession(func(s *note.Session) error {
				_, err := s.AddNote(tc.content, tc.tags, tc.status)

				return err
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err=%v, want=%v", err, tc.wantErr)
			}

			want := []listed{{1, "existing"}}
			if diff := cmp.Diff(want, listNotes(t, repo)); diff != "" {
				t.Errorf("notes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Invalid_Tag_String_Is_Reported_Once(t *testing.T) {
	t.Parallel()

	_, err := note.ParseTags("bad tag!")
	if !errors.Is(err, note.ErrInvalidTagFormat) {
		t.Fatalf("err=%v, want=%v", err, note.ErrInvalidTagFormat)
	}

	err = note.ValidateTags([]string{"ok", "bad one", "worse!"})
	if !errors.Is(err, note.ErrInvalidTagFormat) {
		t.Fatalf("err=%v, want=%v", err, note.ErrInvalidTagFormat)
	}

	if got := strings.Count(err.Error(), "bad one"); got != 1 {
		t.Errorf("error %q should name the tag list exactly once", err)
	}
}

func Test_Parse_Tags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    []string
		wantErr bool
	}{
		{raw: "mytag", want: []string{"mytag"}},
		{raw: "awesome,cool", want: []string{"awesome", "cool"}},
		{raw: "Tag1,2tag", want: []string{"Tag1", "2tag"}},
		{raw: "", wantErr: true},
		{raw: "a,,b", wantErr: true},
		{raw: "a, b", wantErr: true},
		{raw: "a,", wantErr: true},
		{raw: "snake_case", wantErr: true},
		{raw: "ünicode", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()

			got, err := note.ParseTags(tc.raw)
			if tc.wantErr {
				if !errors.Is(err, note.ErrInvalidTagFormat) {
					t.Fatalf("ParseTags(%q) err=%v, want=%v", tc.raw, err, note.ErrInvalidTagFormat)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseTags(%q): %v", tc.raw, err)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseTags(%q) mismatch (-want +got):\n%s", tc.raw, diff)
			}
		})
	}
}

func Test_List_Notes_Filters_By_Any_Tag(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	addNote(t, repo, "New note.", []string{"mytag"}, "")
	addNote(t, repo, "Another note.", []string{"mytag", "awesome"}, "")
	addNote(t, repo, "Untagged.", nil, "")
	addNote(t, repo, "Other.", []string{"other"}, "")

	if diff := cmp.Diff([]listed{{2, "Another note."}}, listNotes(t, repo, "awesome")); diff != "" {
		t.Errorf("filter awesome mismatch (-want +got):\n%s", diff)
	}

	want := []listed{{2, "Another note."}, {4, "Other."}}
	if diff := cmp.Diff(want, listNotes(t, repo, "awesome", "other")); diff != "" {
		t.Errorf("filter awesome,other mismatch (-want +got):\n%s", diff)
	}
}

func Test_List_Notes_Errors(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)

	err := repo.WithSession(func(s *note.Session) error {
		_, err := s.ListNotes(nil)

		return err
	})
	if !errors.Is(err, note.ErrEmptyRepository) {
		t.Fatalf("err=%v, want=%v", err, note.ErrEmptyRepository)
	}

	addNote(t, repo, "A", []string{"x"}, "")

	err = repo.WithSession(func(s *note.Session) error {
		_, err := s.ListNotes([]string{"nonexisting", "other"})

		return err
	})
	if !errors.Is(err, note.ErrNoMatchingNotes) {
		t.Fatalf("err=%v, want=%v", err, note.ErrNoMatchingNotes)
	}

	if !strings.Contains(err.Error(), "'nonexisting, other'") {
		t.Errorf("error %q should list the filter terms", err)
	}
}

func Test_List_Notes_Resolves_Statuses(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)

	run(t, repo, func(s *note.Session) error {
		return s.CreateStatus("DONE", note.StatusChange{Style: ptr("green"), Priority: ptr(1)})
	})

	addNote(t, repo, "done", nil, "DONE")
	addNote(t, repo, "plain", nil, "")

	var got []note.ResolvedStatus

	run(t, repo, func(s *note.Session) error {
		entries, err := s.ListNotes(nil)
		for _, e := range entries {
			got = append(got, e.Status)
		}

		return err
	})

	want := []note.ResolvedStatus{
		{Name: "DONE", Style: "green", Priority: 1},
		{Name: "", Style: note.DefaultStyle, Priority: note.DefaultPriority},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
}

func Test_List_Notes_Marks_Unconfigured_Status_Missing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".notes")
	writeFile(t, path, `{"notes":[{"content":"orphan","tags":null,"status":"GONE"}],"config":{"statuses":{}}}`)

	repo := note.New(path)

	var got note.ResolvedStatus

	run(t, repo, func(s *note.Session) error {
		entries, err := s.ListNotes(nil)
		if err == nil {
			got = entries[0].Status
		}

		return err
	})

	want := note.ResolvedStatus{Name: "GONE", Style: note.DefaultStyle, Priority: 0, Missing: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}

func Test_List_Tags_Deduplicates(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	addNote(t, repo, "untagged", nil, "")

	err := repo.WithSession(func(s *note.Session) error {
		_, err := s.ListTags()

		return err
	})
	if !errors.Is(err, note.ErrNoTaggedNotes) {
		t.Fatalf("err=%v, want=%v", err, note.ErrNoTaggedNotes)
	}

	addNote(t, repo, "New note.", []string{"mytag"}, "")
	addNote(t, repo, "Another note.", []string{"mytag", "awesome"}, "")

	var got []string

	run(t, repo, func(s *note.Session) error {
		var err error
		got, err = s.ListTags()

		return err
	})

	if diff := cmp.Diff([]string{"mytag", "awesome"}, got); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func Test_Delete_Note_Renumbers_Remaining_Notes(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	addNote(t, repo, "one", nil, "")
	addNote(t, repo, "two", nil, "")
	addNote(t, repo, "three", nil, "")

	run(t, repo, func(s *note.Session) error {
		return s.DeleteNote(1)
	})

	want := []listed{{1, "two"}, {2, "three"}}
	if diff := cmp.Diff(want, listNotes(t, repo)); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}

func Test_Delete_Note_Out_Of_Range_Leaves_Repository_Unchanged(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	addNote(t, repo, "A", nil, "")
	addNote(t, repo, "B", nil, "")

	before := readFile(t, repo.Path())

	for _, position := range []int{99, 3, 0, -1} {
		err := repo.WithSession(func(s *note.Session) error {
			return s.DeleteNote(position)
		})
		if !errors.Is(err, note.ErrNoteNotFound) {
			t.Fatalf("DeleteNote(%d) err=%v, want=%v", position, err, note.ErrNoteNotFound)
		}
	}

	if after := readFile(t, repo.Path()); after != before {
		t.Errorf("repository changed:\nbefore: %s\nafter: %s", before, after)
	}
}

func Test_Session_Applies_Several_Operations_In_One_Write(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)

	run(t, repo, func(s *note.Session) error {
		if err := s.CreateStatus("WIP", note.StatusChange{Priority: ptr(1)}); err != nil {
			return err
		}

		if _, err := s.AddNote("first", nil, ""); err != nil {
			return err
		}

		if _, err := s.AddNote("second", nil, "WIP"); err != nil {
			return err
		}

		if s.Len() != 2 {
			t.Errorf("Len=%d, want=2", s.Len())
		}

		return nil
	})

	want := []listed{{1, "second"}, {2, "first"}}
	if diff := cmp.Diff(want, listNotes(t, repo)); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}

func Test_Read_Only_Session_Round_Trips_Unknown_Members(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".notes")
	original := `{
		"version": 2,
		"notes": [{"content": "a <b>", "tags": ["x"], "status": "S", "pinned": true}],
		"config": {"statuses": {"S": {"style": "red", "priority": 1, "icon": "*"}}, "theme": "dark"}
	}`
	writeFile(t, path, original)

	repo := note.New(path)

	run(t, repo, func(s *note.Session) error {
		_, err := s.ListNotes(nil)

		return err
	})

	var want, got any

	if err := json.Unmarshal([]byte(original), &want); err != nil {
		t.Fatalf("unmarshal original: %v", err)
	}

	saved := readFile(t, path)
	if err := json.Unmarshal([]byte(saved), &got); err != nil {
		t.Fatalf("unmarshal saved: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(saved, "a <b>") {
		t.Errorf("content should be stored unescaped:\n%s", saved)
	}
}

func Test_Session_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content *string
		wantErr error
	}{
		{name: "missing file", content: nil, wantErr: note.ErrNotInitialized},
		{name: "invalid json", content: ptr(`{"notes": [`), wantErr: note.ErrCorruptFormat},
		{name: "json array", content: ptr(`[]`), wantErr: note.ErrCorruptFormat},
		{name: "empty file", content: ptr(""), wantErr: note.ErrRepositoryCorrupted},
		{name: "empty object", content: ptr(`{}`), wantErr: note.ErrRepositoryCorrupted},
		{name: "missing config", content: ptr(`{"notes": []}`), wantErr: note.ErrRepositoryCorrupted},
		{name: "missing notes", content: ptr(`{"config": {"statuses": {}}}`), wantErr: note.ErrRepositoryCorrupted},
		{name: "missing statuses", content: ptr(`{"notes": [], "config": {}}`), wantErr: note.ErrRepositoryCorrupted},
		{name: "null notes", content: ptr(`{"notes": null, "config": {"statuses": {}}}`), wantErr: note.ErrRepositoryCorrupted},
		{name: "notes not a list", content: ptr(`{"notes": {}, "config": {"statuses": {}}}`), wantErr: note.ErrRepositoryCorrupted},
		{name: "statuses not an object", content: ptr(`{"notes": [], "config": {"statuses": []}}`), wantErr: note.ErrRepositoryCorrupted},
		{name: "statuses null", content: ptr(`{"notes": [], "config": {"statuses": null}}`), wantErr: note.ErrRepositoryCorrupted},
		{name: "null note", content: ptr(`{"notes": [null], "config": {"statuses": {}}}`), wantErr: note.ErrRepositoryCorrupted},
		{name: "note without content", content: ptr(`{"notes": [{"tags": ["a"]}], "config": {"statuses": {}}}`), wantErr: note.ErrRepositoryCorrupted},
		{name: "note with blank content", content: ptr(`{"notes": [{"content": "  "}], "config": {"statuses": {}}}`), wantErr: note.ErrRepositoryCorrupted},
		{name: "null status", content: ptr(`{"notes": [], "config": {"statuses": {"A": null}}}`), wantErr: note.ErrRepositoryCorrupted},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), ".notes")
			if tc.content != nil {
				writeFile(t, path, *tc.content)
			}

			called := false

			err := note.New(path).WithSession(func(*note.Session) error {
				called = true

				return nil
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err=%v, want=%v", err, tc.wantErr)
			}

			if called {
				t.Error("callback must not run when loading fails")
			}

			if tc.content != nil {
				if got := readFile(t, path); got != *tc.content {
					t.Errorf("file rewritten after failed load: %q", got)
				}
			}
		})
	}
}

func Test_Session_Save_Error_Is_Reported(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".notes")
	faulty := fs.NewFaulty(fs.NewReal())
	repo := note.New(path, note.WithFS(faulty))

	if _, err := repo.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	faulty.Fail(fs.OpWriteFileAtomic, nil)

	errOp := errors.New("operation failed")

	err := repo.WithSession(func(s *note.Session) error {
		return errOp
	})
	if !errors.Is(err, errOp) {
		t.Errorf("err=%v, want wrapping %v", err, errOp)
	}

	if !errors.Is(err, fs.ErrInjected) {
		t.Errorf("err=%v, want wrapping %v", err, fs.ErrInjected)
	}

	if got := faulty.Calls(fs.OpWriteFileAtomic); got != 1 {
		t.Errorf("save attempts=%d, want=1", got)
	}
}

func Test_Session_Saves_When_Callback_Fails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".notes")
	faulty := fs.NewFaulty(fs.NewReal())
	repo := note.New(path, note.WithFS(faulty))

	if _, err := repo.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	err := repo.WithSession(func(s *note.Session) error {
		return s.DeleteNote(1)
	})
	if !errors.Is(err, note.ErrNoteNotFound) {
		t.Fatalf("err=%v, want=%v", err, note.ErrNoteNotFound)
	}

	if got := faulty.Calls(fs.OpWriteFileAtomic); got != 1 {
		t.Errorf("save attempts=%d, want=1", got)
	}
}

func Test_Session_Save_Fails_When_Repository_Removed(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)

	err := repo.WithSession(func(s *note.Session) error {
		_, err := s.AddNote("lost", nil, "")
		if err != nil {
			return err
		}

		return os.Remove(repo.Path())
	})
	if !errors.Is(err, note.ErrNotInitialized) {
		t.Fatalf("err=%v, want=%v", err, note.ErrNotInitialized)
	}

	if _, statErr := os.Stat(repo.Path()); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("repository must not be recreated, stat err=%v", statErr)
	}
}
