package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/courseadvisor/core/metrics"
	"github.com/kilianp07/courseadvisor/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket receiving points.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes recommendation events to InfluxDB using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given endpoint. A trailing
// /api/v2/write is tolerated.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the instance and returns a NopSink when
// the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRecommendation writes one recommendation_event point.
func (s *InfluxSink) RecordRecommendation(rec coremetrics.RecommendationRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("recommendation_event").
		AddTag("outcome", rec.Outcome()).
		AddTag("component", "recommend_engine").
		AddField("request_id", rec.RequestID).
		AddField("selected", len(rec.Selected)).
		AddField("candidates", rec.Candidates).
		AddField("total_credits", rec.TotalCredits).
		AddField("required_credits", rec.RequiredCredits).
		AddField("shortfall", rec.Shortfall).
		AddField("score_mean", round3(rec.ScoreMean)).
		AddField("score_stddev", round3(rec.ScoreStdDev)).
		AddField("duration_ms", round3(float64(rec.Duration)/float64(time.Millisecond))).
		SetTime(pointTime(rec.Time))
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCandidates writes one candidate_event point per candidate.
func (s *InfluxSink) RecordCandidates(recs []coremetrics.CandidateRecord) error {
	if len(recs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(recs))
	for _, r := range recs {
		p := write.NewPointWithMeasurement("candidate_event").
			AddTag("course_id", r.CourseID).
			AddTag("outcome", r.Outcome).
			AddField("request_id", r.RequestID).
			AddField("score", round3(r.Score)).
			SetTime(pointTime(r.Time))
		if r.Reason != "" {
			p = p.AddField("reason", r.Reason)
		}
		points = append(points, p)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordExtraction writes one extraction_event point.
func (s *InfluxSink) RecordExtraction(rec coremetrics.ExtractionRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("extraction_event").
		AddTag("extractor", rec.Extractor).
		AddTag("result", rec.Result).
		AddField("questions", rec.Questions).
		AddField("duration_ms", round3(float64(rec.Duration)/float64(time.Millisecond))).
		SetTime(pointTime(rec.Time))
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() { s.client.Close() }

func pointTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
