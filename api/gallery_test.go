package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/StrixzIV/adv-compro-finals/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryOrderingAndFilters(t *testing.T) {
	a, mem := newTestAPI(t)
	user := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)
	auth := bearerFor(t, a, user)

	now := time.Now()
	oldest := seedPhoto(t, a, mem, user.ID, false, false, now.Add(-2*time.Hour))
	newest := seedPhoto(t, a, mem, user.ID, false, true, now)
	trashed := seedPhoto(t, a, mem, user.ID, true, false, now.Add(-time.Hour))

	w := doRequest(t, a, http.MethodGet, "/storage/gallery", auth, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	items := decodeList(t, w)
	require.Len(t, items, 2, "trashed photos are hidden from the gallery")
	assert.Equal(t, newest.ID, items[0]["id"], "newest upload first")
	assert.Equal(t, oldest.ID, items[1]["id"])

	assert.Equal(t, "/storage/fetch/"+newest.ID, items[0]["file_url"])
	assert.Equal(t, "/storage/fetch/thumbnail/"+newest.ID, items[0]["thumbnail_url"])
	assert.EqualValues(t, newest.SizeBytes, items[0]["size_bytes"])

	w = doRequest(t, a, http.MethodGet, "/storage/trash", auth, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	items = decodeList(t, w)
	require.Len(t, items, 1)
	assert.Equal(t, trashed.ID, items[0]["id"])

	w = doRequest(t, a, http.MethodGet, "/storage/favorites", auth, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	items = decodeList(t, w)
	require.Len(t, items, 1)
	assert.Equal(t, newest.ID, items[0]["id"])
}

func TestGalleryPagination(t *testing.T) {
	a, mem := newTestAPI(t)
	user := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)
	auth := bearerFor(t, a, user)

	now := time.Now()
	for i := 0; i < 5; i++ {
		seedPhoto(t, a, mem, user.ID, false, false, now.Add(-time.Duration(i)*time.Minute))
	}

	page1 := doRequest(t, a, http.MethodGet, "/storage/gallery?limit=2&offset=0", auth, nil, "")
	page2 := doRequest(t, a, http.MethodGet, "/storage/gallery?limit=2&offset=2", auth, nil, "")
	page3 := doRequest(t, a, http.MethodGet, "/storage/gallery?limit=2&offset=4", auth, nil, "")

	require.Equal(t, http.StatusOK, page1.Code)
	require.Equal(t, http.StatusOK, page2.Code)
	require.Equal(t, http.StatusOK, page3.Code)

	seen := map[string]bool{}
	total := 0

	for _, items := range [][]map[string]any{decodeList(t, page1), decodeList(t, page2), decodeList(t, page3)} {
		for _, item := range items {
			id := item["id"].(string)
			assert.False(t, seen[id], "pages must not overlap")
			seen[id] = true
			total++
		}
	}

	assert.Equal(t, 5, total)
	assert.Len(t, decodeList(t, page3), 1, "last page is short")
}

func TestTrashIsNotPaginated(t *testing.T) {
	a, mem := newTestAPI(t)
	user := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)
	auth := bearerFor(t, a, user)

	// One more than the gallery's default page size
	now := time.Now()
	for i := 0; i < 51; i++ {
		seedPhoto(t, a, mem, user.ID, true, false, now.Add(-time.Duration(i)*time.Second))
	}

	w := doRequest(t, a, http.MethodGet, "/storage/trash", auth, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 51, "trash shows everything in one response")

	// limit/offset params exist only on the gallery, here they are noise
	w = doRequest(t, a, http.MethodGet, "/storage/trash?limit=1&offset=100", auth, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 51)
}

func TestFavoritesIsNotPaginated(t *testing.T) {
	a, mem := newTestAPI(t)
	user := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)
	auth := bearerFor(t, a, user)

	now := time.Now()
	for i := 0; i < 3; i++ {
		seedPhoto(t, a, mem, user.ID, false, true, now.Add(-time.Duration(i)*time.Second))
	}

	w := doRequest(t, a, http.MethodGet, "/storage/favorites?limit=1", auth, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 3)
}

func TestGalleryBadPagination(t *testing.T) {
	a, _ := newTestAPI(t)
	user := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)
	auth := bearerFor(t, a, user)

	for _, target := range []string{
		"/storage/gallery?limit=0",
		"/storage/gallery?limit=101",
		"/storage/gallery?limit=abc",
		"/storage/gallery?offset=-1",
	} {
		w := doRequest(t, a, http.MethodGet, target, auth, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestGalleryIsolation(t *testing.T) {
	a, mem := newTestAPI(t)
	alice := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)
	bob := seedUser(t, a, "bob", "bob@example.com", model.RoleUser)

	seedPhoto(t, a, mem, alice.ID, false, false, time.Now())

	w := doRequest(t, a, http.MethodGet, "/storage/gallery", bearerFor(t, a, bob), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))
}

func TestGalleryExifRoundtrip(t *testing.T) {
	a, mem := newTestAPI(t)
	user := seedUser(t, a, "alice", "alice@example.com", model.RoleUser)

	photo := seedPhoto(t, a, mem, user.ID, false, false, time.Now())
	exif := `{"Make":"Canon","FNumber":2.8}`
	require.NoError(t, a.DB.Model(photo).Update("exif_data", &exif).Error)

	w := doRequest(t, a, http.MethodGet, "/storage/gallery", bearerFor(t, a, user), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	items := decodeList(t, w)
	require.Len(t, items, 1)

	got, ok := items[0]["exif_data"].(map[string]any)
	require.True(t, ok, "stored EXIF JSON comes back as an object")
	assert.Equal(t, "Canon", got["Make"])
	assert.Equal(t, 2.8, got["FNumber"])
}
