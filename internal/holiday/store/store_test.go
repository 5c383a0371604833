package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"feriadobot/internal/holiday/models"
)

// backend is the surface every cache implementation shares.
type backend interface {
	Backend() string
	IsValid(ctx context.Context, year int) bool
	Load(ctx context.Context) ([]models.Record, error)
	Save(ctx context.Context, records []models.Record) error
}

// CacheContractSuite runs the same scenarios against every backend. seed
// writes a raw document so malformed and legacy shapes can be exercised.
type CacheContractSuite struct {
	suite.Suite
	newCache func(t *testing.T) (backend, func(doc string))
	cache    backend
	seed     func(doc string)
}

func (s *CacheContractSuite) SetupTest() {
	s.cache, s.seed = s.newCache(s.T())
}

func TestFileCacheContract(t *testing.T) {
	suite.Run(t, &CacheContractSuite{newCache: func(t *testing.T) (backend, func(string)) {
		path := filepath.Join(t.TempDir(), "feriados.json")
		return NewFileCache(path), func(doc string) {
			require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
		}
	}})
}

func TestInMemoryCacheContract(t *testing.T) {
	suite.Run(t, &CacheContractSuite{newCache: func(t *testing.T) (backend, func(string)) {
		holder := &swappableCache{cache: NewInMemoryCache()}
		return holder, func(doc string) {
			holder.cache = NewInMemoryCacheFromDocument([]byte(doc))
		}
	}})
}

func TestSQLiteCacheContract(t *testing.T) {
	suite.Run(t, &CacheContractSuite{newCache: func(t *testing.T) (backend, func(string)) {
		ctx := context.Background()
		cache, err := OpenSQLiteCache(ctx, filepath.Join(t.TempDir(), "cache.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = cache.Close() })
		return cache, func(doc string) {
			_, err := cache.db.ExecContext(ctx,
				`INSERT INTO holiday_cache (id, document) VALUES (1, ?)
				 ON CONFLICT(id) DO UPDATE SET document = excluded.document`, doc)
			require.NoError(t, err)
		}
	}})
}

// swappableCache lets the memory contract test replace the seeded instance.
type swappableCache struct {
	cache *InMemoryCache
}

func (c *swappableCache) Backend() string { return c.cache.Backend() }
func (c *swappableCache) IsValid(ctx context.Context, year int) bool {
	return c.cache.IsValid(ctx, year)
}
func (c *swappableCache) Load(ctx context.Context) ([]models.Record, error) {
	return c.cache.Load(ctx)
}
func (c *swappableCache) Save(ctx context.Context, records []models.Record) error {
	return c.cache.Save(ctx, records)
}

func (s *CacheContractSuite) TestIsValid() {
	ctx := context.Background()

	s.Run("absent storage is invalid", func() {
		s.False(s.cache.IsValid(ctx, 2025))
	})

	s.Run("bare list for the requested year is valid", func() {
		s.seed(`[{"fecha":"2025-12-25","nombre":"Navidad"}]`)
		s.True(s.cache.IsValid(ctx, 2025))
	})

	s.Run("wrapped list for the requested year is valid", func() {
		s.seed(`{"listaFeriados":[{"fecha":"2025-01-01","nombre":"Año nuevo"}]}`)
		s.True(s.cache.IsValid(ctx, 2025))
	})

	s.Run("first record from another year is invalid", func() {
		s.seed(`[{"fecha":"2024-12-25","nombre":"Navidad"},{"fecha":"2025-01-01","nombre":"Año nuevo"}]`)
		s.False(s.cache.IsValid(ctx, 2025))
		s.True(s.cache.IsValid(ctx, 2024))
	})

	s.Run("only the first record decides the year", func() {
		s.seed(`[{"fecha":"2025-12-25","nombre":"Navidad"},{"fecha":"2026-01-01","nombre":"Año nuevo"}]`)
		s.True(s.cache.IsValid(ctx, 2025))
	})

	for name, doc := range map[string]string{
		"empty list":              `[]`,
		"empty wrapped list":      `{"listaFeriados":[]}`,
		"null wrapped list":       `{"listaFeriados":null}`,
		"wrapper without list":    `{"feriados":[{"fecha":"2025-12-25","nombre":"Navidad"}]}`,
		"uppercase wrapper key":   `{"LISTAFERIADOS":[{"fecha":"2025-12-25","nombre":"Navidad"}]}`,
		"capitalized wrapper key": `{"ListaFeriados":[{"fecha":"2025-12-25","nombre":"Navidad"}]}`,
		"malformed json":          `[{"fecha":"2025-12-25",`,
		"record missing fecha":    `[{"nombre":"Navidad"}]`,
		"record with bad fecha":   `[{"fecha":"25/12/2025","nombre":"Navidad"}]`,
		"record that is a string": `["2025-12-25"]`,
		"scalar document":         `2025`,
		"blank document":          `   `,
	} {
		s.Run(name+" is invalid", func() {
			s.seed(doc)
			s.False(s.cache.IsValid(ctx, 2025))
		})
	}
}

func (s *CacheContractSuite) TestLoad() {
	ctx := context.Background()

	s.Run("absent storage returns ErrInvalidCache", func() {
		_, err := s.cache.Load(ctx)
		s.ErrorIs(err, ErrInvalidCache)
	})

	s.Run("loads both shapes transparently", func() {
		s.seed(`{"listaFeriados":[{"fecha":"2025-05-25","nombre":"Revolución de Mayo","tipo":"inamovible"}]}`)
		records, err := s.cache.Load(ctx)
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal("Revolución de Mayo", records[0].Name)

		s.seed(`[{"fecha":"2025-05-25","nombre":"Revolución de Mayo","tipo":"inamovible"}]`)
		again, err := s.cache.Load(ctx)
		s.Require().NoError(err)
		s.Equal(records, again)
	})

	s.Run("does not check the year", func() {
		s.seed(`[{"fecha":"1999-12-25","nombre":"Navidad"}]`)
		records, err := s.cache.Load(ctx)
		s.Require().NoError(err)
		s.Equal(1999, records[0].Date.Year)
	})

	s.Run("malformed document returns ErrInvalidCache", func() {
		s.seed(`{"listaFeriados":"nope"}`)
		_, err := s.cache.Load(ctx)
		s.ErrorIs(err, ErrInvalidCache)
	})
}

func (s *CacheContractSuite) TestSaveRoundTrip() {
	ctx := context.Background()
	records := []models.Record{
		{
			Date:  models.Date{Year: 2025, Month: time.July, Day: 9},
			Name:  "Día de la Independencia",
			Extra: map[string]json.RawMessage{"tipo": json.RawMessage(`"inamovible"`)},
		},
		{
			Date: models.Date{Year: 2025, Month: time.March, Day: 24},
			Name: "Día Nacional de la Memoria por la Verdad & la Justicia",
		},
	}

	s.Require().NoError(s.cache.Save(ctx, records))
	s.True(s.cache.IsValid(ctx, 2025))

	loaded, err := s.cache.Load(ctx)
	s.Require().NoError(err)
	s.Equal(records, loaded)

	s.Run("save overwrites a stale document", func() {
		s.seed(`{"listaFeriados":[{"fecha":"2024-01-01","nombre":"Año nuevo"}]}`)
		s.False(s.cache.IsValid(ctx, 2025))

		s.Require().NoError(s.cache.Save(ctx, records))
		s.True(s.cache.IsValid(ctx, 2025))
	})
}

func TestFileCacheFormatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "feriados.json")
	cache := NewFileCache(path)
	records := []models.Record{{
		Date:  models.Date{Year: 2025, Month: time.July, Day: 9},
		Name:  "Día de la Independencia",
		Extra: map[string]json.RawMessage{"tipo": json.RawMessage(`"inamovible"`)},
	}}

	require.NoError(t, cache.Save(context.Background(), records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "[\n" +
		"  {\n" +
		"    \"fecha\": \"2025-07-09\",\n" +
		"    \"nombre\": \"Día de la Independencia\",\n" +
		"    \"tipo\": \"inamovible\"\n" +
		"  }\n" +
		"]\n"
	require.Equal(t, want, string(data))

	_, err = os.Stat(path + tmpSuffix)
	require.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFileCacheDefaults(t *testing.T) {
	cache := NewFileCache("")
	require.Equal(t, DefaultCacheFile, cache.Path())
	require.Equal(t, "file", cache.Backend())
}

func TestDecodeDocumentShapes(t *testing.T) {
	_, kind, err := decodeDocument([]byte(`[{"fecha":"2025-12-25","nombre":"Navidad"}]`))
	require.NoError(t, err)
	require.Equal(t, shapeList, kind)

	_, kind, err = decodeDocument([]byte(` {"listaFeriados":[{"fecha":"2025-12-25","nombre":"Navidad"}]}`))
	require.NoError(t, err)
	require.Equal(t, shapeWrapped, kind)
	require.Equal(t, "wrapped", kind.String())

	_, _, err = decodeDocument([]byte(`{"LISTAFERIADOS":[{"fecha":"2025-12-25","nombre":"Navidad"}]}`))
	require.ErrorIs(t, err, ErrInvalidCache)
}

func TestEncodeDocumentLineSeparators(t *testing.T) {
	records := []models.Record{{
		Date: models.Date{Year: 2025, Month: time.December, Day: 25},
		Name: "Na\u2028vi\u2029dad <&>",
	}}

	data, err := encodeDocument(records)
	require.NoError(t, err)
	require.Contains(t, string(data), `"nombre": "Na\u2028vi\u2029dad <&>"`)

	decoded, _, err := decodeDocument(data)
	require.NoError(t, err)
	require.Equal(t, records, decoded)
}

func TestRedisCacheUnreachableIsInvalid(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	cache := NewRedisCache(client, "")

	require.Equal(t, "redis", cache.Backend())
	require.False(t, cache.IsValid(context.Background(), 2025))
	_, err := cache.Load(context.Background())
	require.ErrorIs(t, err, ErrInvalidCache)
	require.Error(t, cache.Save(context.Background(), nil))
}
