package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/barasher/go-exiftool"

	"github.com/nobmrkt/wg1gps/metadata"
)

// fallbackService extracts metadata through an exiftool subprocess
// for files the native decoder does not support (other cameras,
// re-encoded videos). The subprocess is started lazily on first use.
type fallbackService struct {
	et *exiftool.Exiftool
	mu sync.Mutex
}

// Close shuts down the exiftool process if it was started
func (s *fallbackService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.et != nil {
		s.et.Close()
		s.et = nil
	}
}

func (s *fallbackService) ensure() (*exiftool.Exiftool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.et != nil {
		return s.et, nil
	}

	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool unavailable: %w", err)
	}
	s.et = et
	return s.et, nil
}

// Extract maps exiftool's view of the file into the native record
// shape. Fields exiftool does not report stay absent.
func (s *fallbackService) Extract(path string) (*metadata.Record, error) {
	et, err := s.ensure()
	if err != nil {
		return nil, err
	}

	infos := et.ExtractMetadata(path)
	for _, info := range infos {
		if info.Err != nil {
			return nil, fmt.Errorf("exiftool: %w", info.Err)
		}

		rec := &metadata.Record{}
		if model, ok := info.Fields["Model"].(string); ok {
			rec.CameraModel = model
		}
		if rec.CameraModel == "" {
			return nil, metadata.ErrNoModel
		}

		for _, key := range []string{"DateTimeOriginal", "CreateDate", "MediaCreateDate"} {
			if dateStr, ok := info.Fields[key].(string); ok {
				if t, err := time.Parse("2006:01:02 15:04:05", dateStr); err == nil {
					rec.DateTimeOriginal = t
					break
				}
			}
		}

		lat, okLat := info.Fields["GPSLatitude"].(float64)
		lon, okLon := info.Fields["GPSLongitude"].(float64)
		if okLat && okLon {
			rec.GPS = &metadata.GPSInfo{Latitude: &lat, Longitude: &lon}
			if alt, ok := info.Fields["GPSAltitude"].(float64); ok {
				rec.GPS.Altitude = &alt
			}
			if datum, ok := info.Fields["GPSMapDatum"].(string); ok {
				rec.GPS.MapDatum = datum
			}
		}

		return rec, nil
	}

	return nil, metadata.ErrNoMetadata
}
