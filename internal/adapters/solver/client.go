package solver

import (
	"beat-planning-service/internal/platform/obs"
	"beat-planning-service/internal/ports"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client talks to the external optimization service. It implements
// ports.Solver and ports.FieldService.
//
// Solves are posted to the primary URL and, when that endpoint cannot be
// reached or answers with something other than JSON, to the fallback URL.
// The client is safe for concurrent use.
type Client struct {
	session   *http.Client
	endpoints []string
	baseURL   string
}

// NewClient builds a client. fallbackURL may be empty. A zero timeout
// leaves requests bounded only by their context.
func NewClient(solveURL, fallbackURL, baseURL string, timeout time.Duration) (*Client, error) {
	solveURL = strings.TrimSpace(solveURL)
	if solveURL == "" {
		return nil, errors.New("solver url is empty")
	}

	endpoints := []string{solveURL}
	if fb := strings.TrimSpace(fallbackURL); fb != "" && fb != solveURL {
		endpoints = append(endpoints, fb)
	}

	return &Client{
		session:   &http.Client{Timeout: timeout},
		endpoints: endpoints,
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}, nil
}

func (c *Client) SolveBeatPlanning(ctx context.Context, in ports.SolveRequest) (_ json.RawMessage, err error) {
	defer obs.Time(ctx, "solver.SolveBeatPlanning")(&err)

	p, err := buildForm(func(w *multipart.Writer) error {
		if err := writeFile(w, "locations_file", in.Locations); err != nil {
			return err
		}
		if err := writeFile(w, "assignments_file", in.Assignments); err != nil {
			return err
		}
		if in.NumSalespeople != nil {
			if err := w.WriteField("num_salespeople", strconv.Itoa(*in.NumSalespeople)); err != nil {
				return err
			}
		}
		if in.DailyWorkingHours != nil {
			if err := w.WriteField("daily_working_hours", formatFloat(*in.DailyWorkingHours)); err != nil {
				return err
			}
		}
		if in.MaxDailyDistanceKm != nil {
			if err := w.WriteField("max_daily_distance_km", formatFloat(*in.MaxDailyDistanceKm)); err != nil {
				return err
			}
		}
		if in.TargetStoresPerDay != nil {
			if err := w.WriteField("target_stores_per_day", strconv.Itoa(*in.TargetStoresPerDay)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("solve beat planning: build form: %w", err)
	}

	out, err := c.doWithFallback(ctx, c.endpoints, func(url string) (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, url, "", p)
	})
	if err != nil {
		return nil, fmt.Errorf("solve beat planning: %w", err)
	}
	return out, nil
}

// Checkin reports a field visit to POST /visit/checkin.
func (c *Client) Checkin(ctx context.Context, token string, in ports.CheckinRequest) (_ json.RawMessage, err error) {
	defer obs.Time(ctx, "solver.Checkin")(&err)

	p, err := buildForm(func(w *multipart.Writer) error {
		fields := [][2]string{
			{"sales_id", strconv.Itoa(in.SalesID)},
			{"lat", formatFloat(in.Lat)},
			{"long", formatFloat(in.Long)},
			{"notes", in.Notes},
		}
		if in.AssignmentID != nil {
			fields = append(fields, [2]string{"assignment_id", strconv.Itoa(*in.AssignmentID)})
		}
		for _, f := range fields {
			if err := w.WriteField(f[0], f[1]); err != nil {
				return err
			}
		}
		if in.Photo != nil {
			return writeFile(w, "photo", *in.Photo)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("checkin: build form: %w", err)
	}

	endpoint := c.baseURL + "/visit/checkin"
	out, err := c.doWithFallback(ctx, []string{endpoint}, func(url string) (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, url, token, p)
	})
	if err != nil {
		return nil, fmt.Errorf("checkin: %w", err)
	}
	return out, nil
}

// AdminMetrics fetches GET /admin/metrics.
func (c *Client) AdminMetrics(ctx context.Context, token string) (_ json.RawMessage, err error) {
	defer obs.Time(ctx, "solver.AdminMetrics")(&err)

	endpoint := c.baseURL + "/admin/metrics"
	out, err := c.doWithFallback(ctx, []string{endpoint}, func(url string) (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, url, token, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("admin metrics: %w", err)
	}
	return out, nil
}

func buildForm(fill func(w *multipart.Writer) error) (*payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := fill(w); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return &payload{contentType: w.FormDataContentType(), body: buf.Bytes()}, nil
}

func writeFile(w *multipart.Writer, field string, u ports.Upload) error {
	name := u.Filename
	if name == "" {
		name = field + ".csv"
	}
	fw, err := w.CreateFormFile(field, name)
	if err != nil {
		return err
	}
	_, err = fw.Write(u.Content)
	return err
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
