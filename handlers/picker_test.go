// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/mealpick/cache"
	"github.com/danielhkuo/mealpick/models"
	"github.com/danielhkuo/mealpick/picker"
	"github.com/danielhkuo/mealpick/recipes"
	"github.com/danielhkuo/mealpick/testutil"
)

func newPickerHandler(t *testing.T, db *sql.DB, fk *testutil.FakeKitchen) (*PickerHandler, *picker.Board) {
	t.Helper()
	board := picker.NewBoard(
		picker.WithDuration(20*time.Millisecond),
		picker.OnSettle(SpinRecorder(db, time.Second)),
	)
	t.Cleanup(board.Close)
	rec := recipes.NewRecommender(fk.Client(), cache.NewMemory(), time.Minute)
	return NewPickerHandler(db, board, rec), board
}

func spin(handler *PickerHandler, lobbyID string, body interface{}) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/lobbies/"+lobbyID+"/spin", body, nil)
	req.SetPathValue("id", lobbyID)
	w := httptest.NewRecorder()
	handler.Spin(w, req)
	return w
}

func spinState(t *testing.T, handler *PickerHandler, lobbyID, query string) models.SpinStateResponse {
	t.Helper()
	req := httptest.NewRequest("GET", "/lobbies/"+lobbyID+"/spin"+query, nil)
	req.SetPathValue("id", lobbyID)
	w := httptest.NewRecorder()
	handler.GetSpin(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var state models.SpinStateResponse
	testutil.AssertJSON(t, w, &state)
	return state
}

// spinCount is polled from require.Eventually, so it reports errors as -1
func spinCount(db *sql.DB, lobbyID string) int {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM spin WHERE lobby_id = $1", lobbyID).Scan(&n); err != nil {
		return -1
	}
	return n
}

func TestSpin_WheelLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fk := testutil.NewFakeKitchen(t)
	handler, _ := newPickerHandler(t, db, fk)
	const lobbyID = "wheel0001"

	idle := spinState(t, handler, lobbyID, "")
	assert.Equal(t, models.SpinStateIdle, idle.State, "unknown lobbies start idle")

	w := spin(handler, lobbyID, nil)
	testutil.AssertStatus(t, w, http.StatusAccepted)

	var started models.SpinStateResponse
	testutil.AssertJSON(t, w, &started)
	assert.Equal(t, models.SpinStateSpinning, started.State)

	w = spin(handler, lobbyID, models.SpinRequest{Mode: models.SpinModeWheel})
	testutil.AssertStatus(t, w, http.StatusConflict)

	settled := spinState(t, handler, lobbyID, "?wait=true")
	assert.Equal(t, models.SpinStateIdle, settled.State)
	require.NotNil(t, settled.Last)
	assert.Equal(t, picker.Segments[picker.SegmentIndex(started.Rotation)], settled.Last.Segment)

	require.Eventually(t, func() bool { return spinCount(db, lobbyID) == 1 },
		time.Second, 10*time.Millisecond, "settled spin is recorded")

	req := httptest.NewRequest("GET", "/lobbies/"+lobbyID+"/spins", nil)
	req.SetPathValue("id", lobbyID)
	hw := httptest.NewRecorder()
	handler.ListSpins(hw, req)

	testutil.AssertStatus(t, hw, http.StatusOK)
	var history models.SpinHistoryResponse
	testutil.AssertJSON(t, hw, &history)
	require.Len(t, history.Spins, 1)
	assert.Equal(t, settled.Last.Segment, history.Spins[0].Segment)
	assert.Equal(t, models.SpinModeWheel, history.Spins[0].Mode)
	assert.Nil(t, history.Spins[0].Recipe)
}

func TestSpin_RecipeMode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fk := stockKitchen(t)
	handler, _ := newPickerHandler(t, db, fk)

	w := spin(handler, recipeLobby, models.SpinRequest{Mode: models.SpinModeRecipes})
	testutil.AssertStatus(t, w, http.StatusAccepted)

	settled := spinState(t, handler, recipeLobby, "?wait=true")
	require.NotNil(t, settled.Last)
	require.NotNil(t, settled.Last.Recipe)
	assert.Equal(t, "Grilled Salmon", settled.Last.Recipe.Title, "only the filtered recipe can win")

	require.Eventually(t, func() bool { return spinCount(db, recipeLobby) == 1 },
		time.Second, 10*time.Millisecond)

	var title string
	require.NoError(t, db.QueryRow("SELECT recipe_title FROM spin WHERE lobby_id = $1", recipeLobby).Scan(&title))
	assert.Equal(t, "Grilled Salmon", title)
}

func TestSpin_RejectedTriggers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fk := testutil.NewFakeKitchen(t)
	handler, board := newPickerHandler(t, db, fk)

	w := spin(handler, "empty0001", models.SpinRequest{Mode: models.SpinModeRecipes})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, models.SpinStateIdle, spinState(t, handler, "empty0001", "").State)

	w = spin(handler, "empty0001", models.SpinRequest{Mode: "dartboard"})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = spin(handler, "Bad-ID", nil)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	board.Close()
	w = spin(handler, "empty0001", nil)
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
}

func TestSpin_ConcurrentTriggers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fk := testutil.NewFakeKitchen(t)
	handler, _ := newPickerHandler(t, db, fk)

	var accepted, conflicts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch spin(handler, "race00001", nil).Code {
			case http.StatusAccepted:
				accepted.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(9), conflicts.Load())
}

func TestGetSpin_WaitBoundedByRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fk := testutil.NewFakeKitchen(t)
	board := picker.NewBoard(picker.WithDuration(time.Minute))
	t.Cleanup(board.Close)
	handler := NewPickerHandler(db, board, recipes.NewRecommender(fk.Client(), nil, time.Minute))

	testutil.AssertStatus(t, spin(handler, "slow00001", nil), http.StatusAccepted)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest("GET", "/lobbies/slow00001/spin?wait=true", nil).WithContext(ctx)
	req.SetPathValue("id", "slow00001")
	w := httptest.NewRecorder()

	began := time.Now()
	handler.GetSpin(w, req)
	assert.Less(t, time.Since(began), 5*time.Second)

	testutil.AssertStatus(t, w, http.StatusOK)
	var state models.SpinStateResponse
	testutil.AssertJSON(t, w, &state)
	assert.Equal(t, models.SpinStateSpinning, state.State)
	require.NotNil(t, state.SettlesAt)
}

func TestSpin_RecipeModeWhileSpinningSkipsKitchen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fk := stockKitchen(t)
	board := picker.NewBoard(picker.WithDuration(time.Minute))
	t.Cleanup(board.Close)
	handler := NewPickerHandler(db, board, recipes.NewRecommender(fk.Client(), cache.NewMemory(), time.Minute))

	w := spin(handler, recipeLobby, nil)
	testutil.AssertStatus(t, w, http.StatusAccepted)

	w = spin(handler, recipeLobby, models.SpinRequest{Mode: models.SpinModeRecipes})
	testutil.AssertStatus(t, w, http.StatusConflict)
	assert.Zero(t, fk.Calls("/recipes/getRecipesFromIngredientsForRecommendations"))
	assert.Zero(t, fk.Calls("/get-participants/"+recipeLobby))
}

func TestSpin_RecipeModeMalformedParticipants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fk := stockKitchen(t)
	fk.RespondRaw("/get-participants/"+recipeLobby, `{"participants": "oops"}`)
	handler, _ := newPickerHandler(t, db, fk)

	w := spin(handler, recipeLobby, models.SpinRequest{Mode: models.SpinModeRecipes})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, models.SpinStateIdle, spinState(t, handler, recipeLobby, "").State)
}
