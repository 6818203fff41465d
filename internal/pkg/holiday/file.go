package holiday

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"go.uber.org/zap"
)

// FileProvider reads holidays from a local text file.
//
// Format: YYYY-MM-DD <country> <name...>
// Example: 2025-08-15 IN Independence Day
type FileProvider struct {
	filePath string
	logger   *zap.Logger

	mu     sync.Mutex
	loaded bool
	data   map[string][]calendar.PublicHoliday // key: "IN-2025"
}

func NewFileProvider(filePath string, logger *zap.Logger) *FileProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileProvider{
		filePath: filePath,
		logger:   logger,
		data:     make(map[string][]calendar.PublicHoliday),
	}
}

// Load reads the file. It is called lazily by ListHolidays.
func (fp *FileProvider) Load() error {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return fp.load()
}

func (fp *FileProvider) load() error {
	file, err := os.Open(fp.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	data := make(map[string][]calendar.PublicHoliday)
	scanner := bufio.NewScanner(file)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 3 || strings.TrimSpace(parts[2]) == "" {
			fp.logger.Warn("Invalid line format", zap.Int("line", lineNo), zap.String("content", line))
			continue
		}

		day, err := dateutil.ParseDay(parts[0])
		if err != nil {
			fp.logger.Warn("Failed to parse date", zap.Int("line", lineNo), zap.Error(err))
			continue
		}

		country := strings.ToUpper(parts[1])
		key := fileKey(country, day.Year())
		data[key] = append(data[key], calendar.PublicHoliday{
			Date:    day,
			Name:    strings.TrimSpace(parts[2]),
			Country: country,
		})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	fp.data = data
	fp.loaded = true

	fp.logger.Info("Holiday file loaded",
		zap.String("file", fp.filePath),
		zap.Int("entries", len(data)))

	return nil
}

// ListHolidays implements calendar.HolidayProvider.
func (fp *FileProvider) ListHolidays(ctx context.Context, country string, year int) ([]calendar.PublicHoliday, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if !fp.loaded {
		if err := fp.load(); err != nil {
			return nil, err
		}
	}

	entries := fp.data[fileKey(strings.ToUpper(country), year)]
	result := make([]calendar.PublicHoliday, len(entries))
	copy(result, entries)
	return result, nil
}

func fileKey(country string, year int) string {
	return fmt.Sprintf("%s-%d", country, year)
}
