package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nobmrkt/wg1gps/metadata"
	"github.com/nobmrkt/wg1gps/riff"
)

// OutputFormat represents different output formats
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputText OutputFormat = "text"
)

// Config holds CLI configuration
type Config struct {
	InputFile    string
	OutputFile   string
	OutputFormat OutputFormat
	ThumbFile    string
	UseExiftool  bool
	Verbose      bool
}

// recordJSON is the JSON rendering of a metadata record
type recordJSON struct {
	CameraModel      string   `json:"camera_model"`
	DateTimeOriginal string   `json:"datetime_original,omitempty"`
	GPSVersionID     string   `json:"gps_version_id,omitempty"`
	GPSDateTime      string   `json:"gps_datetime,omitempty"`
	GPSLatitude      *float64 `json:"gps_latitude,omitempty"`
	GPSLongitude     *float64 `json:"gps_longitude,omitempty"`
	GPSAltitude      *float64 `json:"gps_altitude,omitempty"`
	GPSSatellites    string   `json:"gps_satellites,omitempty"`
	GPSStatus        string   `json:"gps_status,omitempty"`
	GPSMeasureMode   string   `json:"gps_measure_mode,omitempty"`
	GPSMapDatum      string   `json:"gps_map_datum,omitempty"`
	HasThumbnail     bool     `json:"has_thumbnail"`
}

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	config := parseFlags()

	if config.InputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: input file is required\n")
		flag.Usage()
		os.Exit(1)
	}

	if _, err := os.Stat(config.InputFile); os.IsNotExist(err) {
		logger.Error("input file does not exist", "file", config.InputFile)
		os.Exit(1)
	}

	if err := run(config); err != nil {
		logger.Error("extraction failed", "file", config.InputFile, "err", err)
		os.Exit(1)
	}
}

func parseFlags() Config {
	var config Config

	flag.StringVar(&config.InputFile, "i", "", "Input AVI file")
	flag.StringVar(&config.OutputFile, "o", "", "Output file (default: stdout)")
	flag.StringVar(&config.ThumbFile, "thumb", "", "Save embedded thumbnail to this file")
	flag.BoolVar(&config.UseExiftool, "exiftool", false, "Fall back to exiftool for unsupported files")
	flag.BoolVar(&config.Verbose, "v", false, "Verbose output")

	var format string
	flag.StringVar(&format, "f", "text", "Output format (json, text)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] -i movie.avi\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExtracts camera and GPS metadata from PENTAX Optio WG-1 GPS videos.\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i movie.avi                    # Print metadata as text\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i movie.avi -f json            # JSON output\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i movie.avi -thumb thumb.jpg   # Also save the thumbnail\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i movie.avi -exiftool          # Use exiftool for other cameras\n", os.Args[0])
	}

	flag.Parse()

	switch strings.ToLower(format) {
	case "json":
		config.OutputFormat = OutputJSON
	case "text":
		config.OutputFormat = OutputText
	default:
		logger.Error("unsupported output format", "format", format)
		os.Exit(1)
	}

	return config
}

func run(config Config) error {
	svc := &fallbackService{}
	defer svc.Close()

	rec, err := metadata.ExtractFile(config.InputFile)
	if err != nil {
		if !config.UseExiftool || !fallbackWorthy(err) {
			return err
		}
		if config.Verbose {
			logger.Info("native decode failed, trying exiftool", "err", err)
		}
		rec, err = svc.Extract(config.InputFile)
		if err != nil {
			return err
		}
	}

	if config.Verbose {
		logger.Info("decoded metadata",
			"model", rec.CameraModel,
			"gps", rec.GPS != nil,
			"thumbnail_bytes", len(rec.Thumbnail))
	}

	if config.ThumbFile != "" {
		if err := rec.SaveThumbnail(config.ThumbFile); err != nil {
			logger.Warn("could not save thumbnail", "err", err)
		} else if config.Verbose {
			logger.Info("thumbnail saved", "file", config.ThumbFile)
		}
	}

	out := os.Stdout
	if config.OutputFile != "" {
		f, err := os.Create(config.OutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch config.OutputFormat {
	case OutputJSON:
		return writeJSON(out, rec)
	default:
		return writeText(out, rec)
	}
}

// fallbackWorthy reports whether the failure means "not a file this
// decoder supports" rather than an I/O problem
func fallbackWorthy(err error) bool {
	return errors.Is(err, metadata.ErrNoMetadata) ||
		errors.Is(err, metadata.ErrNoModel) ||
		errors.Is(err, riff.ErrMalformed)
}

func writeJSON(out *os.File, rec *metadata.Record) error {
	j := recordJSON{
		CameraModel:  rec.CameraModel,
		HasThumbnail: len(rec.Thumbnail) > 0,
	}
	if !rec.DateTimeOriginal.IsZero() {
		j.DateTimeOriginal = rec.DateTimeOriginal.Format("2006-01-02 15:04:05")
	}
	if gps := rec.GPS; gps != nil {
		j.GPSVersionID = gps.VersionID
		if !gps.DateTime.IsZero() {
			j.GPSDateTime = gps.DateTime.Format("2006-01-02 15:04:05")
		}
		j.GPSLatitude = gps.Latitude
		j.GPSLongitude = gps.Longitude
		j.GPSAltitude = gps.Altitude
		j.GPSSatellites = gps.Satellites
		j.GPSStatus = gps.Status
		j.GPSMeasureMode = gps.MeasureMode
		j.GPSMapDatum = gps.MapDatum
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "    ")
	return encoder.Encode(j)
}

func writeText(out *os.File, rec *metadata.Record) error {
	fmt.Fprintf(out, "camera_model:        %q\n", rec.CameraModel)
	if !rec.DateTimeOriginal.IsZero() {
		fmt.Fprintf(out, "datetime_original:   %s\n", rec.DateTimeOriginal.Format("2006-01-02 15:04:05"))
	}

	gps := rec.GPS
	if gps == nil {
		fmt.Fprintf(out, "gps:                 none\n")
		return nil
	}

	if gps.VersionID != "" {
		fmt.Fprintf(out, "gps_version_id:      %s\n", gps.VersionID)
	}
	if !gps.DateTime.IsZero() {
		fmt.Fprintf(out, "gps_datetime:        %s\n", gps.DateTime.Format("2006-01-02 15:04:05"))
	}
	if gps.Latitude != nil {
		fmt.Fprintf(out, "gps_latitude:        %g\n", *gps.Latitude)
	}
	if gps.Longitude != nil {
		fmt.Fprintf(out, "gps_longitude:       %g\n", *gps.Longitude)
	}
	if gps.Altitude != nil {
		fmt.Fprintf(out, "gps_altitude:        %g\n", *gps.Altitude)
	}
	if gps.Satellites != "" {
		fmt.Fprintf(out, "gps_satellites:      %q\n", gps.Satellites)
	}
	if gps.Status != "" {
		fmt.Fprintf(out, "gps_status:          %q\n", gps.Status)
	}
	if gps.MeasureMode != "" {
		fmt.Fprintf(out, "gps_measure_mode:    %q\n", gps.MeasureMode)
	}
	if gps.MapDatum != "" {
		fmt.Fprintf(out, "gps_map_datum:       %q\n", gps.MapDatum)
	}

	return nil
}
