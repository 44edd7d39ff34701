package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"timed-quiz/internal/app"
	"timed-quiz/internal/clock"
	"timed-quiz/internal/infra/catalog"
	pgloader "timed-quiz/internal/infra/postgres"
	pgmigrations "timed-quiz/internal/infra/postgres/migrations"
	infraredis "timed-quiz/internal/infra/redis"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuizRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedCatalog(t, ctx, pgURL, sampleCatalog)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	topics := catalog.DefaultTopics()
	loader := pgloader.NewQuestionLoader(pool, topics)

	categories, err := loader.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 2 || categories[0] != "js_basics" {
		t.Fatalf("unexpected categories %v", categories)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	questions := infraredis.NewQuestionCache(redisClient, loader, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)

	m := clock.NewManual(time.Unix(0, 0))
	service := app.NewQuizService(sessionStore, questions, app.Options{},
		app.WithSchedulerFactory(func(func(func())) clock.Scheduler { return m }))

	runner := service.Open(nil)
	snap, err := service.Start(ctx, runner.ID(), "js")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if snap.Topic != "js" || snap.Total != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if n, err := sessionStore.LiveCount(ctx); err != nil || n != 1 {
		t.Fatalf("expected one live session, got %d (%v)", n, err)
	}

	if ok, err := service.Select(ctx, runner.ID(), "B"); err != nil || !ok {
		t.Fatalf("select: ok=%v err=%v", ok, err)
	}
	m.Advance(app.DefaultRevealPause)
	// let the second question run out
	m.Advance(10 * time.Second)
	m.Advance(app.DefaultRevealPause)

	snap, err = service.Snapshot(ctx, runner.ID())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.State != app.StateCompleted || snap.Correct != 1 || snap.Percentage != 50 {
		t.Fatalf("expected 1/2 completed, got %+v", snap)
	}

	// cached copy survives the row being gone
	if _, err := pool.Exec(ctx, `DELETE FROM question_sets`); err != nil {
		t.Fatalf("delete rows: %v", err)
	}
	if _, err := questions.LoadQuestions(ctx, "js"); err != nil {
		t.Fatalf("expected cached set, got %v", err)
	}

	service.Close(ctx, runner.ID())
	if n, err := sessionStore.LiveCount(ctx); err != nil || n != 0 {
		t.Fatalf("expected no live sessions, got %d (%v)", n, err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedCatalog(t *testing.T, ctx context.Context, dsn, raw string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	c, err := catalog.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if _, err := pgloader.Seed(ctx, db, c); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

const sampleCatalog = `{
  "categories": [
    {
      "id": "js_basics",
      "questions": [
        {"id": 1, "question": "Which keyword declares a block-scoped variable?", "options": ["A. var", "B. let"], "correctAnswer": "B", "timeLimit": 10},
        {"id": 2, "question": "What does typeof null return?", "options": ["A. object", "B. null"], "correctAnswer": "A", "timeLimit": 10}
      ]
    },
    {
      "id": "react_advanced",
      "questions": [
        {"id": 1, "question": "Which hook memoizes a value?", "options": ["A. useMemo", "B. useRef"], "correctAnswer": "A"}
      ]
    }
  ]
}`

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
