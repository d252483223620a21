package database

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createUser(t *testing.T, db *DB, name, email string) *models.User {
	u := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), u))
	return u
}

func createItem(t *testing.T, db *DB, owner int64, name, desc string, available bool) *models.Item {
	it := &models.Item{Name: name, Description: desc, Available: available, OwnerID: owner}
	require.NoError(t, db.CreateItem(context.Background(), it))
	return it
}

func TestNewDB_DirectoryCreation(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "db_test_dir")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "dir", "test.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
}

func TestDB_Ping(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestUserCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createUser(t, db, "Alice", "a@mail.com")
	assert.NotZero(t, user.ID)

	found, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)

	byEmail, err := db.GetUserByEmail(ctx, "A@MAIL.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	err = db.CreateUser(ctx, &models.User{Name: "Other", Email: "A@mail.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	found.Name = "Alice B"
	require.NoError(t, db.UpdateUser(ctx, found))
	found, err = db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", found.Name)

	users, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, db.DeleteUser(ctx, user.ID))
	_, err = db.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, db.DeleteUser(ctx, user.ID), domain.ErrNotFound)
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createUser(t, db, "Alice", "a@mail.com")
	bob := createUser(t, db, "Bob", "b@mail.com")

	bob.Email = "A@Mail.com"
	assert.ErrorIs(t, db.UpdateUser(ctx, bob), domain.ErrConflict)
}

func TestUnicodeCaseFolding(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "Иван", "Иван@Почта.рф")
	createItem(t, db, owner.ID, "Стул", "деревянный", true)
	createItem(t, db, owner.ID, "Стол", "ДУБОВЫЙ", true)

	found, err := db.SearchAvailableItems(ctx, "стул")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Стул", found[0].Name)

	found, err = db.SearchAvailableItems(ctx, "Дубовый")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Стол", found[0].Name)

	got, err := db.GetUserByEmail(ctx, "иван@почта.рф")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.ID)

	err = db.CreateUser(ctx, &models.User{Name: "Другой", Email: "ИВАН@ПОЧТА.РФ"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestItems(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "Owner", "o@mail.com")
	chair := createItem(t, db, owner.ID, "Chair", "wooden", true)
	createItem(t, db, owner.ID, "Table", "has a CHAIR slot", true)
	createItem(t, db, owner.ID, "Stool", "chair-like", false)
	createItem(t, db, owner.ID, "100% cotton", "sheet", true)

	t.Run("GetByID", func(t *testing.T) {
		got, err := db.GetItemByID(ctx, chair.ID)
		require.NoError(t, err)
		assert.Equal(t, "Chair", got.Name)
		assert.True(t, got.Available)
		assert.Nil(t, got.RequestID)

		_, err = db.GetItemByID(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Search", func(t *testing.T) {
		found, err := db.SearchAvailableItems(ctx, "cHaIr")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "Chair", found[0].Name)
		assert.Equal(t, "Table", found[1].Name)

		found, err = db.SearchAvailableItems(ctx, "%")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "100% cotton", found[0].Name)

		found, err = db.SearchAvailableItems(ctx, "  ")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("Update", func(t *testing.T) {
		chair.Available = false
		chair.Description = "oak"
		require.NoError(t, db.UpdateItem(ctx, chair))
		got, err := db.GetItemByID(ctx, chair.ID)
		require.NoError(t, err)
		assert.False(t, got.Available)
		assert.Equal(t, "oak", got.Description)
	})

	t.Run("ByOwner", func(t *testing.T) {
		items, err := db.GetItemsByOwner(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, items, 4)
	})
}

func TestBookings_FindBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "Owner", "o@mail.com")
	booker := createUser(t, db, "Booker", "b@mail.com")
	item := createItem(t, db, owner.ID, "Drill", "cordless", true)

	now := time.Now().UTC().Truncate(time.Second)
	mk := func(start, end time.Time, status models.BookingStatus) *models.Booking {
		b := &models.Booking{Start: start, End: end, ItemID: item.ID, BookerID: booker.ID, Status: status}
		require.NoError(t, db.CreateBooking(ctx, b))
		return b
	}
	past := mk(now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusApproved)
	current := mk(now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)
	future := mk(now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusWaiting)
	rejected := mk(now.Add(72*time.Hour), now.Add(96*time.Hour), models.StatusRejected)

	ids := func(bs []*models.Booking) []int64 {
		out := make([]int64, 0, len(bs))
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}

	t.Run("AllOrderedByStartDesc", func(t *testing.T) {
		got, err := db.FindBookings(ctx, models.BookingQuery{BookerID: booker.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{rejected.ID, future.ID, current.ID, past.ID}, ids(got))
		require.NotNil(t, got[0].Item)
		require.NotNil(t, got[0].Booker)
		assert.Equal(t, "Drill", got[0].Item.Name)
		assert.Equal(t, "Booker", got[0].Booker.Name)
	})

	t.Run("Current", func(t *testing.T) {
		got, err := db.FindBookings(ctx, models.BookingQuery{OwnerID: owner.ID, StartBefore: &now, EndAfter: &now})
		require.NoError(t, err)
		assert.Equal(t, []int64{current.ID}, ids(got))
	})

	t.Run("Past", func(t *testing.T) {
		got, err := db.FindBookings(ctx, models.BookingQuery{BookerID: booker.ID, EndBefore: &now})
		require.NoError(t, err)
		assert.Equal(t, []int64{past.ID}, ids(got))
	})

	t.Run("Future", func(t *testing.T) {
		got, err := db.FindBookings(ctx, models.BookingQuery{BookerID: booker.ID, StartAfter: &now})
		require.NoError(t, err)
		assert.Equal(t, []int64{rejected.ID, future.ID}, ids(got))
	})

	t.Run("Status", func(t *testing.T) {
		got, err := db.FindBookings(ctx, models.BookingQuery{OwnerID: owner.ID, Status: models.StatusWaiting})
		require.NoError(t, err)
		assert.Equal(t, []int64{future.ID}, ids(got))
	})

	t.Run("ItemIDs", func(t *testing.T) {
		got, err := db.FindBookings(ctx, models.BookingQuery{ItemIDs: []int64{item.ID}, Status: models.StatusApproved})
		require.NoError(t, err)
		assert.Equal(t, []int64{current.ID, past.ID}, ids(got))
	})

	t.Run("OtherOwner", func(t *testing.T) {
		got, err := db.FindBookings(ctx, models.BookingQuery{OwnerID: booker.ID})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestBookings_StatusAndTimes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "Owner", "o@mail.com")
	booker := createUser(t, db, "Booker", "b@mail.com")
	item := createItem(t, db, owner.ID, "Drill", "cordless", true)

	start := time.Date(2030, 1, 2, 10, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	b := &models.Booking{Start: start, End: start.Add(time.Hour), ItemID: item.ID, BookerID: booker.ID, Status: models.StatusWaiting}
	require.NoError(t, db.CreateBooking(ctx, b))

	require.NoError(t, db.UpdateBookingStatus(ctx, b.ID, models.StatusApproved))
	got, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.True(t, got.Start.Equal(start))

	assert.ErrorIs(t, db.UpdateBookingStatus(ctx, 999, models.StatusApproved), domain.ErrNotFound)
	_, err = db.GetBooking(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemRequests(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createUser(t, db, "Alice", "a@mail.com")
	bob := createUser(t, db, "Bob", "b@mail.com")

	first := &models.ItemRequest{Description: "need a drill", RequesterID: alice.ID}
	require.NoError(t, db.CreateItemRequest(ctx, first))
	second := &models.ItemRequest{Description: "need a ladder", RequesterID: alice.ID}
	require.NoError(t, db.CreateItemRequest(ctx, second))
	other := &models.ItemRequest{Description: "need a tent", RequesterID: bob.ID}
	require.NoError(t, db.CreateItemRequest(ctx, other))

	own, err := db.GetItemRequestsByRequester(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, second.ID, own[0].ID)
	assert.Equal(t, "Alice", own[0].Requester.Name)

	others, err := db.GetItemRequestsExcept(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, other.ID, others[0].ID)

	reqID := first.ID
	fulfil := &models.Item{Name: "Drill", Description: "for request", Available: true, OwnerID: bob.ID, RequestID: &reqID}
	require.NoError(t, db.CreateItem(ctx, fulfil))

	items, err := db.GetItemsByRequestIDs(ctx, []int64{first.ID, second.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].RequestID)
	assert.Equal(t, first.ID, *items[0].RequestID)

	_, err = db.GetItemRequest(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createUser(t, db, "Owner", "o@mail.com")
	author := createUser(t, db, "Author", "a@mail.com")
	item := createItem(t, db, owner.ID, "Drill", "cordless", true)

	c := &models.Comment{Text: "Great", ItemID: item.ID, AuthorID: author.ID}
	require.NoError(t, db.CreateComment(ctx, c))
	assert.Equal(t, "Author", c.AuthorName)

	comments, err := db.GetCommentsByItemIDs(ctx, []int64{item.ID})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Great", comments[0].Text)
	assert.Equal(t, "Author", comments[0].AuthorName)

	comments, err = db.GetCommentsByItemIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDeleteUser_Cascade(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice := createUser(t, db, "Alice", "a@mail.com")
	bob := createUser(t, db, "Bob", "b@mail.com")

	req := &models.ItemRequest{Description: "need a drill", RequesterID: alice.ID}
	require.NoError(t, db.CreateItemRequest(ctx, req))
	reqID := req.ID
	bobItem := &models.Item{Name: "Drill", Description: "d", Available: true, OwnerID: bob.ID, RequestID: &reqID}
	require.NoError(t, db.CreateItem(ctx, bobItem))
	aliceItem := createItem(t, db, alice.ID, "Tent", "t", true)

	now := time.Now()
	require.NoError(t, db.CreateBooking(ctx, &models.Booking{
		Start: now.Add(time.Hour), End: now.Add(2 * time.Hour), ItemID: bobItem.ID, BookerID: alice.ID, Status: models.StatusWaiting,
	}))
	require.NoError(t, db.CreateComment(ctx, &models.Comment{Text: "ok", ItemID: bobItem.ID, AuthorID: alice.ID}))

	require.NoError(t, db.DeleteUser(ctx, alice.ID))

	_, err := db.GetItemByID(ctx, aliceItem.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	kept, err := db.GetItemByID(ctx, bobItem.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.RequestID)

	bookings, err := db.FindBookings(ctx, models.BookingQuery{OwnerID: bob.ID})
	require.NoError(t, err)
	assert.Empty(t, bookings)

	comments, err := db.GetCommentsByItemIDs(ctx, []int64{bobItem.ID})
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDB_ErrorPaths(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	db.Close() // Close the DB to trigger errors

	ctx := context.Background()

	t.Run("CreateUser_Error", func(t *testing.T) {
		assert.Error(t, db.CreateUser(ctx, &models.User{Name: "x", Email: "x@x"}))
	})
	t.Run("FindBookings_Error", func(t *testing.T) {
		_, err := db.FindBookings(ctx, models.BookingQuery{})
		assert.Error(t, err)
	})
	t.Run("GetUser_NotNotFound", func(t *testing.T) {
		_, err := db.GetUserByID(ctx, 1)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("Ping_Error", func(t *testing.T) {
		assert.Error(t, db.Ping(ctx))
	})
}
