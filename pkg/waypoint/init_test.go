package waypoint

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/config"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/storage"
)

func testOptions(t *testing.T, mode router.StorageMode) Options {
	t.Helper()
	cfg := config.Default()
	cfg.Language = "es"
	cfg.State.Mode = mode.String()
	cfg.State.Path = filepath.Join(t.TempDir(), "state.toml")
	return Options{
		Config:       &cfg,
		Key:          "main",
		Start:        "home",
		Destinations: []router.Destination{"home", "detail"},
		NoBackDevice: true,
	}
}

func TestInitSaveRestore(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(storage.DiscardRoot)
	opts := testOptions(t, router.ModeSavable)

	app, err := Init(ctx, opts)
	require.NoError(t, err)
	assert.Nil(t, app.Back)
	assert.Equal(t, "Inicio", app.Title())

	require.NoError(t, app.Controller.Navigate("detail", router.WithArgs(5)))
	app.Surface.Sync()
	id := app.Controller.Current().ID()
	require.NoError(t, app.Save(ctx))
	app.Close()

	restored, err := Init(ctx, opts)
	require.NoError(t, err)
	defer restored.Close()

	assert.Equal(t, 2, restored.Controller.Len())
	assert.Equal(t, id, restored.Controller.Current().ID())
	args, _ := restored.Controller.Current().Args()
	assert.Equal(t, 5, args)
	assert.Equal(t, "Detalles", restored.Title())

	restored.Surface.Sync()
	assert.False(t, restored.Surface.InTransition())
}

func TestInitDiscardsForeignState(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(storage.DiscardRoot)
	opts := testOptions(t, router.ModeSavable)

	other := opts
	other.Key = "other"
	app, err := Init(ctx, other)
	require.NoError(t, err)
	require.NoError(t, app.Controller.Navigate("detail"))
	require.NoError(t, app.Save(ctx))
	app.Close()

	app, err = Init(ctx, opts)
	require.NoError(t, err)
	defer app.Close()
	assert.Equal(t, 1, app.Controller.Len())
}

func TestInitDataStoreModeSkipsFile(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(storage.DiscardRoot)

	app, err := Init(ctx, testOptions(t, router.ModeDataStore))
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Store)
	assert.NoError(t, app.Save(ctx))
}

func TestInitDataStoreResetsAfterRootDiscarded(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(storage.DiscardRoot)

	app, err := Init(ctx, testOptions(t, router.ModeDataStore))
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Controller.Navigate("detail"))
	require.NoError(t, app.Controller.RestoreState(nil))
	assert.Equal(t, 2, app.Controller.Len())

	storage.DiscardRoot()
	require.NoError(t, app.Controller.RestoreState(nil))
	assert.Equal(t, 1, app.Controller.Len())
	assert.Equal(t, router.Destination("home"), app.Controller.Current().Destination())
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	opts := testOptions(t, router.ModeSavable)
	opts.Config.Transition.Kind = "spin"

	_, err := Init(context.Background(), opts)
	assert.Error(t, err)
}

func TestErrorPredicates(t *testing.T) {
	c, err := router.New(router.Options{Start: "home", Destinations: []router.Destination{"home"}, Host: storage.New()})
	require.NoError(t, err)

	assert.True(t, IsIllegalDestination(c.Navigate("nowhere")))
	assert.False(t, IsMissingArgs(c.Navigate("nowhere")))
	assert.False(t, IsNotAttached(nil))
}
