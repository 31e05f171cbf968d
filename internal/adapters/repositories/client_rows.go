package repositories

import (
	"database/sql"
	"field-visit-planner/internal/domain"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const clientColumns = `id, name, address, lat, lng, frequency, preferred_days, duration_min, window_start, window_end`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		c        domain.Client
		lat, lng sql.NullFloat64
		freq     string
		days     string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Address, &lat, &lng, &freq, &days, &c.DurationMin, &c.WindowStart, &c.WindowEnd); err != nil {
		return domain.Client{}, err
	}

	if lat.Valid && lng.Valid {
		c.Location = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}

	weekdays, err := parseWeekdays(days)
	if err != nil {
		return domain.Client{}, fmt.Errorf("client %s: %w", c.ID, err)
	}
	c.Recurrence = domain.Recurrence{Frequency: domain.Frequency(freq), PreferredDays: weekdays}

	return c, nil
}

func scanClients(rows *sql.Rows) ([]domain.Client, error) {
	clients := make([]domain.Client, 0, 64)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("list clients: scan row: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: row iteration: %w", err)
	}
	return clients, nil
}

// formatWeekdays stores preferred days as comma-separated weekday numbers
// (0 = Sunday).
func formatWeekdays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

func parseWeekdays(s string) ([]time.Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid preferred day %q", p)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}
