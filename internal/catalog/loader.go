package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var ErrNoSources = errors.New("no catalog sources configured")

// Loader fetches the dish list and menu table from static data files.
// Each dataset is tried against its sources in order until one responds,
// then cached for the lifetime of the process.
type Loader struct {
	client       *http.Client
	timeout      time.Duration
	dishSources  []string
	menuSources  []string
	logger       *slog.Logger
	group        singleflight.Group
	fetchCounter func(source string)

	mu         sync.RWMutex
	dishes     []models.Dish
	menu       models.Menu
	dishSource string
	menuSource string
	loadedAt   time.Time
}

// NewLoader creates a loader. Sources may be http(s) URLs or file paths;
// a ".gz" suffix marks gzip-compressed content.
func NewLoader(dishSources, menuSources []string, timeout time.Duration, logger *slog.Logger) *Loader {
	return &Loader{
		client:      &http.Client{Timeout: timeout},
		timeout:     timeout,
		dishSources: dishSources,
		menuSources: menuSources,
		logger:      logger,
	}
}

// Dishes returns the dish list, loading it on first use
func (l *Loader) Dishes(ctx context.Context) ([]models.Dish, error) {
	l.mu.RLock()
	cached := l.dishes
	l.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	// concurrent callers share one round trip
	v, err, _ := l.group.Do("dishes", func() (interface{}, error) {
		loadCtx, cancel := l.loadContext(ctx)
		defer cancel()

		var dishes []models.Dish
		source, err := l.loadFirst(loadCtx, l.dishSources, &dishes)
		if err != nil {
			return nil, fmt.Errorf("failed to load dishes: %w", err)
		}
		if dishes == nil {
			dishes = []models.Dish{}
		}

		l.mu.Lock()
		l.dishes = dishes
		l.dishSource = source
		l.loadedAt = time.Now()
		l.mu.Unlock()

		l.logger.Info("dish catalog loaded", "source", source, "dishes", len(dishes))
		return dishes, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Dish), nil
}

// Menu returns the menu table, loading it on first use
func (l *Loader) Menu(ctx context.Context) (models.Menu, error) {
	l.mu.RLock()
	cached := l.menu
	l.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := l.group.Do("menu", func() (interface{}, error) {
		loadCtx, cancel := l.loadContext(ctx)
		defer cancel()

		var menu models.Menu
		source, err := l.loadFirst(loadCtx, l.menuSources, &menu)
		if err != nil {
			return nil, fmt.Errorf("failed to load menu: %w", err)
		}
		if menu == nil {
			menu = models.Menu{}
		}

		l.mu.Lock()
		l.menu = menu
		l.menuSource = source
		l.loadedAt = time.Now()
		l.mu.Unlock()

		l.logger.Info("menu table loaded", "source", source, "tiers", len(menu))
		return menu, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(models.Menu), nil
}

// LoadAll loads both datasets concurrently
func (l *Loader) LoadAll(ctx context.Context) ([]models.Dish, models.Menu, error) {
	var (
		dishes []models.Dish
		menu   models.Menu
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dishes, err = l.Dishes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		menu, err = l.Menu(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return dishes, menu, nil
}

// Invalidate drops cached data so the next call refetches
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dishes = nil
	l.menu = nil
	l.dishSource = ""
	l.menuSource = ""
}

// GetStats returns statistics about the cached catalog
func (l *Loader) GetStats() map[string]interface{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := make(map[string]interface{})
	stats["dishes_loaded"] = l.dishes != nil
	stats["menu_loaded"] = l.menu != nil
	stats["total_dishes"] = len(l.dishes)
	stats["total_tiers"] = len(l.menu)
	stats["dishes_source"] = l.dishSource
	stats["menu_source"] = l.menuSource
	if !l.loadedAt.IsZero() {
		stats["loaded_at"] = l.loadedAt.UTC()
	}
	return stats
}

// loadContext detaches a shared load from the caller that started it, so one
// cancelled request does not fail every caller waiting on the same load
func (l *Loader) loadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if l.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.timeout)
}

// loadFirst decodes the first source that responds successfully into dst
func (l *Loader) loadFirst(ctx context.Context, sources []string, dst interface{}) (string, error) {
	if len(sources) == 0 {
		return "", ErrNoSources
	}

	var errs []error
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		data, err := l.fetch(ctx, source)
		if err != nil {
			l.logger.Debug("catalog source failed", "source", source, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", source, err))
			continue
		}
		if err := json.Unmarshal(data, dst); err != nil {
			l.logger.Warn("catalog source has invalid JSON", "source", source, "error", err)
			errs = append(errs, fmt.Errorf("%s: invalid JSON: %w", source, err))
			continue
		}
		return source, nil
	}
	return "", errors.Join(errs...)
}

// fetch reads a source from the network or the file system
func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	if l.fetchCounter != nil {
		l.fetchCounter(source)
	}

	var body io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to download file: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		body = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		body = f
	}
	defer body.Close()

	var r io.Reader = body
	if strings.HasSuffix(source, ".gz") {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}
