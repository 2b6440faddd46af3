package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/keepsakeapp/keepsake-server/internal/domain"
	"github.com/keepsakeapp/keepsake-server/internal/id"
	"github.com/keepsakeapp/keepsake-server/internal/store"
)

func createTestAlbum(t *testing.T, s *Store, ownerID, name string) *domain.Album {
	t.Helper()
	a := &domain.Album{OwnerID: ownerID, Name: name}
	a.ID = id.MustGenerate("alb")
	a.InitTimestamps()
	if err := s.CreateAlbum(context.Background(), a); err != nil {
		t.Fatalf("create album: %v", err)
	}
	return a
}

func TestCreateAndGetAlbum(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)

	a := createTestAlbum(t, s, u.ID, "Summer 2026")

	got, err := s.GetAlbum(ctx, a.ID, u.ID)
	if err != nil {
		t.Fatalf("get album: %v", err)
	}
	if got.Name != "Summer 2026" {
		t.Errorf("name = %q, want %q", got.Name, "Summer 2026")
	}
	if got.HasCover() {
		t.Error("new album should have no cover")
	}
	if len(got.MediaIDs) != 0 {
		t.Errorf("new album should be empty, got %d members", len(got.MediaIDs))
	}

	other := createTestUser(t, s)
	if _, err := s.GetAlbum(ctx, a.ID, other.ID); err != store.ErrNotFound {
		t.Errorf("cross-owner get: err = %v, want ErrNotFound", err)
	}
}

func TestRenameAndDeleteAlbum(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)

	a := createTestAlbum(t, s, u.ID, "Old Name")

	if err := s.RenameAlbum(ctx, a.ID, u.ID, "New Name"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, err := s.GetAlbum(ctx, a.ID, u.ID)
	if err != nil {
		t.Fatalf("get album: %v", err)
	}
	if got.Name != "New Name" {
		t.Errorf("name = %q, want %q", got.Name, "New Name")
	}

	if err := s.RenameAlbum(ctx, "alb-missing", u.ID, "X"); err != store.ErrNotFound {
		t.Errorf("rename missing: err = %v, want ErrNotFound", err)
	}

	m := createTestMedia(t, s, u.ID, "member.jpg", domain.MediaTypePhoto)
	if err := s.AddMediaToAlbum(ctx, a.ID, m.ID, u.ID); err != nil {
		t.Fatalf("add media: %v", err)
	}

	if err := s.DeleteAlbum(ctx, a.ID, u.ID); err != nil {
		t.Fatalf("delete album: %v", err)
	}
	if _, err := s.GetAlbum(ctx, a.ID, u.ID); err != store.ErrNotFound {
		t.Errorf("deleted album: err = %v, want ErrNotFound", err)
	}
	// Deleting an album never touches its member records.
	if _, err := s.GetMedia(ctx, m.ID, u.ID); err != nil {
		t.Errorf("member record should survive album deletion: %v", err)
	}

	if err := s.DeleteAlbum(ctx, a.ID, u.ID); err != store.ErrNotFound {
		t.Errorf("repeat delete: err = %v, want ErrNotFound", err)
	}
}

func TestAlbumMembershipAndCover(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)

	a := createTestAlbum(t, s, u.ID, "Covers")
	first := createTestMedia(t, s, u.ID, "first.jpg", domain.MediaTypePhoto)
	second := createTestMedia(t, s, u.ID, "second.jpg", domain.MediaTypePhoto)

	if err := s.AddMediaToAlbum(ctx, a.ID, first.ID, u.ID); err != nil {
		t.Fatalf("add first: %v", err)
	}
	got, err := s.GetAlbum(ctx, a.ID, u.ID)
	if err != nil {
		t.Fatalf("get album: %v", err)
	}
	if !got.HasCover() || *got.CoverMediaID != first.ID {
		t.Errorf("first added record should become the cover")
	}

	// Cover sticks once assigned.
	if err := s.AddMediaToAlbum(ctx, a.ID, second.ID, u.ID); err != nil {
		t.Fatalf("add second: %v", err)
	}
	got, err = s.GetAlbum(ctx, a.ID, u.ID)
	if err != nil {
		t.Fatalf("get album: %v", err)
	}
	if *got.CoverMediaID != first.ID {
		t.Errorf("cover = %q, want %q", *got.CoverMediaID, first.ID)
	}
	if len(got.MediaIDs) != 2 {
		t.Errorf("member count = %d, want 2", len(got.MediaIDs))
	}

	// Adding an existing member is a no-op.
	if err := s.AddMediaToAlbum(ctx, a.ID, first.ID, u.ID); err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	got, err = s.GetAlbum(ctx, a.ID, u.ID)
	if err != nil {
		t.Fatalf("get album: %v", err)
	}
	if len(got.MediaIDs) != 2 {
		t.Errorf("member count after repeat add = %d, want 2", len(got.MediaIDs))
	}

	// Removing the cover record clears the cover; other members stay.
	if err := s.RemoveMediaFromAlbum(ctx, a.ID, first.ID, u.ID); err != nil {
		t.Fatalf("remove first: %v", err)
	}
	got, err = s.GetAlbum(ctx, a.ID, u.ID)
	if err != nil {
		t.Fatalf("get album: %v", err)
	}
	if got.HasCover() {
		t.Error("cover should be cleared when the cover record is removed")
	}
	if len(got.MediaIDs) != 1 || got.MediaIDs[0] != second.ID {
		t.Errorf("members = %v, want [%s]", got.MediaIDs, second.ID)
	}

	// Removing a non-member is a no-op.
	if err := s.RemoveMediaFromAlbum(ctx, a.ID, first.ID, u.ID); err != nil {
		t.Fatalf("repeat remove: %v", err)
	}

	if err := s.AddMediaToAlbum(ctx, "alb-missing", first.ID, u.ID); err != store.ErrNotFound {
		t.Errorf("add to missing album: err = %v, want ErrNotFound", err)
	}
	if err := s.AddMediaToAlbum(ctx, a.ID, "med-missing", u.ID); err != store.ErrNotFound {
		t.Errorf("add missing media: err = %v, want ErrNotFound", err)
	}
}

func TestConcurrentAddsAssignOneCover(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)

	a := createTestAlbum(t, s, u.ID, "Race")
	var ids []string
	for i := 0; i < 8; i++ {
		m := createTestMedia(t, s, u.ID, "r.jpg", domain.MediaTypePhoto)
		ids = append(ids, m.ID)
	}

	var wg sync.WaitGroup
	for _, mediaID := range ids {
		wg.Add(1)
		go func(mediaID string) {
			defer wg.Done()
			if err := s.AddMediaToAlbum(ctx, a.ID, mediaID, u.ID); err != nil {
				t.Errorf("add %s: %v", mediaID, err)
			}
		}(mediaID)
	}
	wg.Wait()

	got, err := s.GetAlbum(ctx, a.ID, u.ID)
	if err != nil {
		t.Fatalf("get album: %v", err)
	}
	if len(got.MediaIDs) != len(ids) {
		t.Errorf("member count = %d, want %d", len(got.MediaIDs), len(ids))
	}
	if !got.HasCover() {
		t.Fatal("album should have a cover")
	}
	if !got.ContainsMedia(*got.CoverMediaID) {
		t.Errorf("cover %q is not a member", *got.CoverMediaID)
	}
}

func TestListAlbums(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)
	other := createTestUser(t, s)

	createTestAlbum(t, s, u.ID, "One")
	createTestAlbum(t, s, u.ID, "Two")
	createTestAlbum(t, s, other.ID, "Theirs")

	albums, err := s.ListAlbums(ctx, u.ID)
	if err != nil {
		t.Fatalf("list albums: %v", err)
	}
	if len(albums) != 2 {
		t.Errorf("album count = %d, want 2", len(albums))
	}
	for _, a := range albums {
		if a.OwnerID != u.ID {
			t.Errorf("album %s has wrong owner", a.ID)
		}
	}
}

func TestListAlbumMediaExcludesDeleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s)

	a := createTestAlbum(t, s, u.ID, "Gallery")
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	kept := createMediaAt(t, s, u.ID, "kept.jpg", domain.MediaTypePhoto, base)
	trashed := createMediaAt(t, s, u.ID, "trashed.jpg", domain.MediaTypePhoto, base.Add(time.Minute))

	for _, m := range []*domain.MediaRecord{kept, trashed} {
		if err := s.AddMediaToAlbum(ctx, a.ID, m.ID, u.ID); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := s.SoftDeleteMedia(ctx, trashed.ID, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	page, err := s.ListAlbumMedia(ctx, a.ID, u.ID, store.PageRequest{Page: 1})
	if err != nil {
		t.Fatalf("list album media: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != kept.ID {
		t.Errorf("album listing should hide deleted members")
	}

	// Membership itself survives deletion; restore brings the record back.
	if err := s.RestoreMedia(ctx, trashed.ID, u.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	page, err = s.ListAlbumMedia(ctx, a.ID, u.ID, store.PageRequest{Page: 1})
	if err != nil {
		t.Fatalf("list album media: %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("restored member should reappear, got %d", len(page.Items))
	}

	if _, err := s.ListAlbumMedia(ctx, "alb-missing", u.ID, store.PageRequest{Page: 1}); err != store.ErrNotFound {
		t.Errorf("missing album: err = %v, want ErrNotFound", err)
	}
}
