package reconcile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/instance"

func writeFiles(t *testing.T, fs afero.Fs, files ...string) {
	t.Helper()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(root, f), []byte(f), 0644))
	}
}

func pack(name string) Descriptor {
	return Descriptor{
		ID:   name,
		Type: "resourcepack",
		Files: []File{
			{Filename: name, URL: "https://example.com/" + name},
		},
	}
}

func targets(items []downloadmgr.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Target
	}
	return out
}

func TestPlan_Minimal(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "resourcepacks/a.zip", "resourcepacks/c.zip")

	plans, err := New(root).Plan([]Descriptor{pack("a.zip"), pack("b.zip")}, fs)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	plan := plans[0]
	assert.Equal(t, "resourcepack", plan.Type)
	assert.Equal(t, []string{filepath.Join(root, "resourcepacks", "b.zip")}, targets(plan.ToDownload))
	assert.Equal(t, "resourcepacks", plan.ToDownload[0].Group)
	assert.Equal(t, []string{filepath.Join(root, "resourcepacks", "c.zip")}, plan.ToDelete)
	assert.Equal(t, Summary{Downloads: 1, Deletes: 1}, plan.Summary())
}

func TestPlan_DisabledEquivalence(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "mods/name.jar.disabled")

	desired := []Descriptor{{ID: "name", Type: "mod", Files: []File{{Filename: "name.jar", URL: "https://example.com/name.jar"}}}}
	plans, err := New(root).Plan(desired, fs)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.True(t, plans[0].Empty())
}

func TestPlan_Integrity(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "mods/good.jar", "mods/bad.jar")

	desired := []Descriptor{{
		ID:   "mods",
		Type: "mod",
		Files: []File{
			{Filename: "good.jar", URL: "https://example.com/good.jar", Size: 13},
			{Filename: "bad.jar", URL: "https://example.com/bad.jar", Size: 1000},
		},
	}}
	sum, err := sha1Of(fs, filepath.Join(root, "mods", "good.jar"))
	require.NoError(t, err)
	desired[0].Files[0].Sha1 = sum

	plans, err := New(root).Plan(desired, fs)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "mods", "bad.jar")}, targets(plans[0].ToDownload))
	assert.Equal(t, int64(1000), plans[0].Summary().Bytes)
	assert.Empty(t, plans[0].ToDelete)
}

func TestPlan_SubdirectoriesUntouched(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "mods/old.jar", "mods/config/settings.json")

	plans, err := New(root).Plan([]Descriptor{{ID: "x", Type: "mod"}}, fs)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "mods", "old.jar")}, plans[0].ToDelete)
}

func TestPlan_NoResolvableFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "mods/keep.jar")

	desired := []Descriptor{
		{ID: "keep", Type: "mod", Files: []File{{Filename: "keep.jar", URL: "https://example.com/keep.jar"}}},
		{ID: "nourl", Type: "mod", Files: []File{{Filename: "nourl.jar"}}},
	}
	plans, err := New(root).Plan(desired, fs)
	require.NoError(t, err)
	assert.True(t, plans[0].Empty())
}

func TestPlan_Worlds(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs,
		"saves/present/level.dat",
		"saves/present/"+MarkerFile,
		"saves/old-installed/level.dat",
		"saves/old-installed/"+MarkerFile,
		"saves/my-own-world/level.dat",
	)

	desired := []Descriptor{{
		ID:   "worlds",
		Type: "world",
		Files: []File{
			{Filename: "present.zip", URL: "https://example.com/present.zip"},
			{Filename: "adventure.zip", URL: "https://example.com/adventure.zip", Sha1: "abc"},
		},
	}}
	plans, err := New(root).Plan(desired, fs)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	plan := plans[0]
	require.Len(t, plan.ToDownload, 1)
	item := plan.ToDownload[0]
	assert.Equal(t, filepath.Join(root, "saves", "adventure.zip"), item.Target)
	assert.Equal(t, "saves", item.Group)
	require.NotNil(t, item.Extract)
	assert.Equal(t, filepath.Join(root, "saves", "adventure"), item.Extract.Dir)
	assert.True(t, item.Extract.DeleteArchive)
	assert.Equal(t, MarkerFile, item.Extract.Marker)

	// directories without a marker belong to the user
	assert.Equal(t, []string{filepath.Join(root, "saves", "old-installed")}, plan.ToDelete)
}

func TestPlan_WorldWithoutMarker(t *testing.T) {
	fs := afero.NewMemMapFs()
	// left over by an extraction that did not finish
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "saves", "adventure"), 0755))

	desired := []Descriptor{{
		ID:    "adventure",
		Type:  "world",
		Files: []File{{Filename: "adventure.zip", URL: "https://example.com/adventure.zip"}},
	}}
	plans, err := New(root).Plan(desired, fs)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.Len(t, plans[0].ToDownload, 1)
	assert.Equal(t, filepath.Join(root, "saves", "adventure"), plans[0].ToDownload[0].Extract.Dir)
	assert.Empty(t, plans[0].ToDelete)
}

func TestPlan_Server(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "mods/client-only.jar")

	desired := []Descriptor{
		{ID: "client", Type: "mod", Files: []File{{Filename: "client-only.jar", URL: "https://example.com/c.jar"}}},
		{ID: "both", Type: "mod", Files: []File{{Filename: "both.jar", URL: "https://example.com/b.jar", ServerSide: true}}},
	}

	r := New(root)
	plans, err := r.Plan(desired, fs)
	require.NoError(t, err)
	assert.Len(t, plans[0].ToDownload, 1)
	assert.Empty(t, plans[0].ToDelete)

	r.Server = true
	plans, err = r.Plan(desired, fs)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "mods", "both.jar")}, targets(plans[0].ToDownload))
	assert.Equal(t, []string{filepath.Join(root, "mods", "client-only.jar")}, plans[0].ToDelete)
}

func TestPlan_Types(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "shaderpacks/old.zip", "resourcepacks/untouched.zip")

	r := New(root)
	r.Types = []string{"shaderpack"}
	plans, err := r.Plan([]Descriptor{{ID: "m", Type: "mod"}}, fs)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "mod", plans[0].Type)
	assert.Equal(t, "shaderpack", plans[1].Type)
	assert.Equal(t, []string{filepath.Join(root, "shaderpacks", "old.zip")}, plans[1].ToDelete)

	_, err = r.Plan([]Descriptor{{ID: "x", Type: "skin"}}, fs)
	assert.True(t, errors.Is(err, ErrUnknownType))
}

// fakeDownloader writes every item into fs
type fakeDownloader struct {
	fs     afero.Fs
	fail   map[string]bool
	during func()
	items  []downloadmgr.Item
}

func (f *fakeDownloader) Run(ctx context.Context, items []downloadmgr.Item) (*downloadmgr.Result, error) {
	if f.during != nil {
		f.during()
	}
	res := &downloadmgr.Result{}
	for _, item := range items {
		f.items = append(f.items, item)
		if f.fail[item.Target] {
			res.Failed = append(res.Failed, downloadmgr.FailedItem{Item: item, Err: errors.New("boom")})
			continue
		}
		if err := afero.WriteFile(f.fs, item.Target, []byte("new"), 0644); err != nil {
			return nil, err
		}
		res.Downloaded++
	}
	return res, nil
}

func TestApply(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "resourcepacks/a.zip", "resourcepacks/c.zip")

	r := New(root)
	plans, err := r.Plan([]Descriptor{pack("a.zip"), pack("b.zip")}, fs)
	require.NoError(t, err)

	c := filepath.Join(root, "resourcepacks", "c.zip")
	downloader := &fakeDownloader{fs: fs, during: func() {
		// deletions happen after all downloads
		exists, _ := afero.Exists(fs, c)
		assert.True(t, exists)
	}}

	res, err := r.Apply(context.Background(), fs, plans, downloader)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Downloads.Downloaded)
	assert.Equal(t, []string{c}, res.Deleted)
	assert.Empty(t, res.Errors)

	exists, _ := afero.Exists(fs, c)
	assert.False(t, exists)

	// a second plan has nothing to do
	plans, err = r.Plan([]Descriptor{pack("a.zip"), pack("b.zip")}, fs)
	require.NoError(t, err)
	assert.True(t, plans[0].Empty())
	assert.Equal(t, "nothing to do", Summarize(plans).String())
}

func TestApply_PostponesDeletesOnFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "resourcepacks/old.zip")

	r := New(root)
	plans, err := r.Plan([]Descriptor{pack("new.zip")}, fs)
	require.NoError(t, err)

	downloader := &fakeDownloader{fs: fs, fail: map[string]bool{filepath.Join(root, "resourcepacks", "new.zip"): true}}
	res, err := r.Apply(context.Background(), fs, plans, downloader)
	require.NoError(t, err)
	assert.Len(t, res.Downloads.Failed, 1)
	assert.Empty(t, res.Deleted)
	assert.Equal(t, []string{filepath.Join(root, "resourcepacks", "old.zip")}, res.Postponed)

	exists, _ := afero.Exists(fs, filepath.Join(root, "resourcepacks", "old.zip"))
	assert.True(t, exists)
}

func TestApply_DeleteErrorsAreSkipped(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFiles(t, base, "mods/a.jar", "mods/b.jar")
	fs := afero.NewReadOnlyFs(base)

	r := New(root)
	plans, err := r.Plan([]Descriptor{{ID: "none", Type: "mod"}}, fs)
	require.NoError(t, err)
	require.Len(t, plans[0].ToDelete, 2)

	res, err := r.Apply(context.Background(), fs, plans, &fakeDownloader{fs: base})
	require.NoError(t, err)
	require.Len(t, res.Errors, 2)
	var ioErr *ReconciliationIOError
	assert.True(t, errors.As(res.Errors[0], &ioErr))
	assert.Equal(t, filepath.Join(root, "mods", "a.jar"), ioErr.Path)
}

func TestSummary_String(t *testing.T) {
	s := Summary{Downloads: 2, Deletes: 1, Bytes: 3 * 1000 * 1000}
	assert.Equal(t, "2 to download (3.0 MB), 1 to delete", s.String())
}

func TestLoadContentSet(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/content.yaml", []byte(`
content:
  - id: sodium
    provider: modrinth
    type: mod
    files:
      - filename: sodium-fabric-0.4.4.jar
        url: https://cdn.modrinth.com/sodium-fabric-0.4.4.jar
        sha1: abc
        size: 100
  - id: faithful
    type: resourcepack
    files:
      - filename: faithful.zip
        url: https://example.com/faithful.zip
`), 0644))

	desired, err := LoadContentSet(fs, "/content.yaml")
	require.NoError(t, err)
	require.Len(t, desired, 2)
	assert.Equal(t, "modrinth", desired[0].Provider)
	assert.Equal(t, int64(100), desired[0].Files[0].Size)
	assert.Equal(t, "resourcepack", desired[1].Type)

	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte(`{"content": [{"id": "x", "type": "skin"}]}`), 0644))
	_, err = LoadContentSet(fs, "/bad.json")
	assert.True(t, errors.Is(err, ErrUnknownType))
}
