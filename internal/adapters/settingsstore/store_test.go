package settingsstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/healthui/internal/adapters/settingsstore"
	"github.com/okian/healthui/internal/domain/settings"
	"github.com/okian/healthui/pkg/logger"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"
)

// behavesLikeStore runs the shared contract against a fresh store.
func behavesLikeStore(ctx context.Context, store settingsstore.Store) {
	Convey("Then absent keys report ok=false without error", func() {
		v, ok, err := store.Get(ctx, "title")
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)
		So(v, ShouldEqual, "")
	})

	Convey("And values round-trip and overwrite", func() {
		So(store.Set(ctx, "url", "http://svc/health"), ShouldBeNil)
		So(store.Set(ctx, "url", "http://svc/q/health"), ShouldBeNil)
		v, ok, err := store.Get(ctx, "url")
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, "http://svc/q/health")
	})

	Convey("And empty values are stored as present", func() {
		So(store.Set(ctx, "title", ""), ShouldBeNil)
		v, ok, err := store.Get(ctx, "title")
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, "")
	})

	Convey("And settings load and save through it", func() {
		next := settings.Settings{Title: "Ops <board>", EndpointURL: "/q/health", Poll: settings.PollEvery30Seconds}
		So(settings.Save(ctx, store, settings.Defaults(), next), ShouldBeNil)
		So(settings.Load(ctx, store, settings.Defaults(), logger.Nop()), ShouldResemble, next)
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		ctx := context.Background()
		store := settingsstore.NewMemoryStore()

		behavesLikeStore(ctx, store)

		Convey("And it fails after Close", func() {
			So(store.Close(), ShouldBeNil)
			_, _, err := store.Get(ctx, "title")
			So(errors.Is(err, settingsstore.ErrClosed), ShouldBeTrue)
			So(errors.Is(store.Set(ctx, "title", "x"), settingsstore.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestFileStore(t *testing.T) {
	Convey("Given a file store in a temp dir", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
		store, err := settingsstore.NewFileStore(path)
		So(err, ShouldBeNil)

		behavesLikeStore(ctx, store)

		Convey("And values survive reopening", func() {
			So(store.Set(ctx, "poll", "every minute"), ShouldBeNil)
			So(store.Close(), ShouldBeNil)

			reopened, err := settingsstore.NewFileStore(path)
			So(err, ShouldBeNil)
			v, ok, err := reopened.Get(ctx, "poll")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "every minute")
			So(reopened.Path(), ShouldEqual, path)
		})

		Convey("And a corrupt file is reported as unavailable", func() {
			So(os.WriteFile(path, []byte("title: [unterminated"), 0o600), ShouldBeNil)
			_, _, err := store.Get(ctx, "title")
			So(errors.Is(err, settingsstore.ErrUnavailable), ShouldBeTrue)

			Convey("And loading still degrades to defaults", func() {
				So(settings.Load(ctx, store, settings.Defaults(), logger.Nop()), ShouldResemble, settings.Defaults())
			})
		})
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given an in-memory sqlite store", t, func() {
		ctx := context.Background()
		store, err := settingsstore.NewSQLiteStore(ctx, ":memory:")
		So(err, ShouldBeNil)
		Reset(func() { _ = store.Close() })

		behavesLikeStore(ctx, store)
	})

	Convey("Given a file-backed sqlite store", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "settings.db")
		store, err := settingsstore.NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)
		So(store.Set(ctx, "title", "Persisted"), ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		Convey("Then values survive reopening", func() {
			reopened, err := settingsstore.NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			defer func() { _ = reopened.Close() }()
			v, ok, err := reopened.Get(ctx, "title")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "Persisted")
		})
	})
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("HEALTHUI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("HEALTHUI_TEST_REDIS_ADDR not set")
	}

	Convey("Given a redis store", t, func() {
		ctx := context.Background()
		client := redis.NewClient(&redis.Options{Addr: addr})
		prefix := "healthui-test:" + t.Name() + ":"
		store := settingsstore.NewRedisStore(settingsstore.WithRedisClient(client), settingsstore.WithKeyPrefix(prefix))
		So(store.Ping(ctx), ShouldBeNil)
		Reset(func() {
			_ = client.Del(ctx, prefix+"title", prefix+"url", prefix+"poll").Err()
		})

		behavesLikeStore(ctx, store)
	})
}

func TestRedisStoreUnreachable(t *testing.T) {
	Convey("Given a redis store pointing nowhere", t, func() {
		ctx := context.Background()
		store := settingsstore.NewRedisStore(settingsstore.WithRedisAddr("127.0.0.1:1"))
		defer func() { _ = store.Close() }()

		Convey("Then reads fail as unavailable and settings fall back", func() {
			_, _, err := store.Get(ctx, "title")
			So(errors.Is(err, settingsstore.ErrUnavailable), ShouldBeTrue)
			So(settings.Load(ctx, store, settings.Defaults(), logger.Nop()), ShouldResemble, settings.Defaults())
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Given backend selections", t, func() {
		ctx := context.Background()

		Convey("When none is given then memory is used", func() {
			s, err := settingsstore.Open(ctx)
			So(err, ShouldBeNil)
			So(s, ShouldHaveSameTypeAs, &settingsstore.MemoryStore{})
		})

		Convey("When file or sqlite lack a path then options are invalid", func() {
			_, err := settingsstore.Open(ctx, settingsstore.WithBackend("file"))
			So(errors.Is(err, settingsstore.ErrInvalidOptions), ShouldBeTrue)
			_, err = settingsstore.Open(ctx, settingsstore.WithBackend("sqlite"))
			So(errors.Is(err, settingsstore.ErrInvalidOptions), ShouldBeTrue)
		})

		Convey("When the backend is unknown", func() {
			_, err := settingsstore.Open(ctx, settingsstore.WithBackend("etcd"))
			So(errors.Is(err, settingsstore.ErrUnknownBackend), ShouldBeTrue)
		})

		Convey("When file, sqlite and redis are requested", func() {
			dir := t.TempDir()
			f, err := settingsstore.Open(ctx, settingsstore.WithBackend("file"), settingsstore.WithPath(filepath.Join(dir, "s.yaml")))
			So(err, ShouldBeNil)
			So(f, ShouldHaveSameTypeAs, &settingsstore.FileStore{})

			q, err := settingsstore.Open(ctx, settingsstore.WithBackend("SQLite"), settingsstore.WithPath(filepath.Join(dir, "s.db")))
			So(err, ShouldBeNil)
			So(q, ShouldHaveSameTypeAs, &settingsstore.SQLiteStore{})
			So(q.Close(), ShouldBeNil)

			r, err := settingsstore.Open(ctx, settingsstore.WithBackend("redis"), settingsstore.WithRedisAddr("127.0.0.1:1"), settingsstore.WithRedisDB(2))
			So(err, ShouldBeNil)
			So(r, ShouldHaveSameTypeAs, &settingsstore.RedisStore{})
			So(r.Close(), ShouldBeNil)
		})
	})
}
