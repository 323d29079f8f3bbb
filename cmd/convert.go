package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alde/comically/internal/config"
	"github.com/alde/comically/internal/manifest"
	"github.com/alde/comically/pkg/converter"
	"github.com/alde/comically/pkg/progress"
	"github.com/alde/comically/pkg/reader"
)

// ManifestName is written next to the converted pages.
const ManifestName = "manifest.json"

var (
	outputDir      string
	configPath     string
	deviceName     string
	deviceWidth    int
	deviceHeight   int
	imageFormat    string
	quality        int
	pngCompression string
	brightness     int
	gamma          float64
	marginColor    string
	splitStrategy  string
	rightToLeft    bool
	noAutoCrop     bool
	workerCount    int
	pageSelection  string
	noProgress     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [input directory]",
	Short: "Convert a directory of comic pages for an e-reader",
	Long: `Convert every page image in a directory (an extracted CBZ/CBR, a chapter
folder) into pages optimized for an e-reader screen.

Examples:
  comically convert ./onepiece-v01 -o ./out
  comically convert ./chapter -o ./out --device kobo-libra-2 --split rotate
  comically convert ./chapter -o ./out --image-format webp --quality 80 --pages "1-20"
  comically convert ./chapter -o ./out --device custom --width 1000 --height 1400`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()
	flags.StringVarP(&outputDir, "output", "o", "", "Output directory (required)")
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.StringVarP(&deviceName, "device", "d", reader.DefaultKey, "Target device preset, or custom with --width/--height")
	flags.IntVar(&deviceWidth, "width", 0, "Device width in pixels (overrides the preset)")
	flags.IntVar(&deviceHeight, "height", 0, "Device height in pixels (overrides the preset)")
	flags.StringVarP(&imageFormat, "image-format", "f", "jpeg", "Output encoding (jpeg, png, webp)")
	flags.IntVar(&quality, "quality", 85, "JPEG/WebP quality (0-100)")
	flags.StringVar(&pngCompression, "png-compression", "default", "PNG compression (fast, default, best)")
	flags.IntVar(&brightness, "brightness", -10, "Brightness offset (-100 to 100)")
	flags.Float64Var(&gamma, "gamma", 1.8, "Gamma correction (0.1 to 3.0)")
	flags.StringVar(&marginColor, "margin-color", "none", "Pad pages to the full screen (none, black, white)")
	flags.StringVar(&splitStrategy, "split", "rotate-split", "Double-page spreads (none, split, rotate, rotate-split)")
	flags.BoolVar(&rightToLeft, "rtl", true, "Right-to-left reading order (manga)")
	flags.BoolVar(&noAutoCrop, "no-auto-crop", false, "Keep blank page margins")
	flags.IntVar(&workerCount, "workers", 0, "Number of worker goroutines (0 = auto)")
	flags.StringVar(&pageSelection, "pages", "", "Only convert these input pages (e.g. \"1-3,7\")")
	flags.BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	convertCmd.MarkFlagRequired("output")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	cfg := settings.Pipeline

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	entries, err := collectEntries(inputDir)
	if err != nil {
		return err
	}

	pages, err := converter.ParsePageRanges(settings.Pages)
	if err != nil {
		return errors.Wrap(err, "invalid --pages")
	}
	if !pages.IsEmpty() {
		if err := pages.ValidateAgainstTotal(len(entries)); err != nil {
			return errors.Wrap(err, "invalid --pages")
		}
	}
	entries = converter.SelectEntries(entries, pages)
	if len(entries) == 0 {
		return errors.Wrapf(converter.ErrNoPages, "no page images found in %s", inputDir)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	if verbose {
		fmt.Fprintf(out, "Converting %d pages from %s to %s\n", len(entries), inputDir, outputDir)
		fmt.Fprintf(out, "Target device: %s (%dx%d), %s\n", settings.Device, cfg.DeviceWidth, cfg.DeviceHeight, cfg.ImageFormat())
	}

	tracker := progress.NewTracker(len(entries))
	var bar *pb.ProgressBar
	if !noProgress && !quiet {
		bar = pb.New(len(entries)).SetWriter(cmd.ErrOrStderr()).Start()
		tracker.SetObserver(progress.ObserverFunc(func(progress.Event) {
			bar.Increment()
		}))
	}

	conv := converter.New(converter.Options{
		Config:      cfg,
		WorkerCount: settings.Workers,
		Tracker:     tracker,
	})

	var inputBytes int64
	batch, err := conv.ProcessArchive(ctx, readEntries(inputDir, entries, &inputBytes))
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return errors.Wrap(err, "conversion failed")
	}

	m, err := writePages(outputDir, batch, settings)
	if err != nil {
		return err
	}
	m.Stats.TotalInputBytes = inputBytes
	if err := manifest.WriteJSON(m, filepath.Join(outputDir, ManifestName)); err != nil {
		return err
	}

	fmt.Fprintf(out, "Converted %d of %d images into %d pages (%s -> %s) in %v\n",
		batch.Processed, batch.Processed+batch.Skipped, len(batch.Pages),
		humanize.Bytes(uint64(inputBytes)), humanize.Bytes(uint64(m.Stats.TotalOutputBytes)),
		batch.Duration.Round(time.Millisecond))
	if batch.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d images, see %s\n", batch.Skipped, ManifestName)
	}
	if verbose {
		tracker.WriteSummary(out)
	}

	if batch.Processed == 0 {
		return errors.Wrap(converter.ErrNoPages, "every image failed to convert")
	}
	return nil
}

// resolveSettings layers explicitly set flags over the loaded config.
func resolveSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg := &settings.Pipeline
	flags := cmd.Flags()

	if flags.Changed("device") {
		settings.Device = deviceName
		if reader.Normalize(deviceName) != reader.CustomKey {
			profile, err := reader.GetProfile(deviceName)
			if err != nil {
				return nil, err
			}
			cfg.DeviceWidth, cfg.DeviceHeight = profile.Dimensions()
		}
	}
	if flags.Changed("width") {
		cfg.DeviceWidth = deviceWidth
	}
	if flags.Changed("height") {
		cfg.DeviceHeight = deviceHeight
	}
	if reader.Normalize(settings.Device) == reader.CustomKey {
		profile, err := reader.Custom(cfg.DeviceWidth, cfg.DeviceHeight)
		if err != nil {
			return nil, err
		}
		settings.Device = profile.Name
	}

	if flags.Changed("quality") {
		cfg.Quality = quality
	}
	if flags.Changed("png-compression") {
		c, err := converter.ParsePNGCompression(pngCompression)
		if err != nil {
			return nil, err
		}
		cfg.PNGCompression = c
	}
	if flags.Changed("image-format") {
		f, err := converter.ParseImageFormat(imageFormat, cfg.Quality, string(cfg.PNGCompression))
		if err != nil {
			return nil, err
		}
		cfg.Format = f.Kind
	}
	if flags.Changed("brightness") {
		cfg.Brightness = brightness
	}
	if flags.Changed("gamma") {
		cfg.Gamma = gamma
	}
	if flags.Changed("margin-color") {
		cfg.MarginColor = converter.MarginColor(strings.ToLower(marginColor))
	}
	if flags.Changed("split") {
		cfg.Split = converter.SplitStrategy(strings.ToLower(splitStrategy))
	}
	if flags.Changed("rtl") {
		cfg.RightToLeft = rightToLeft
	}
	if flags.Changed("no-auto-crop") {
		cfg.AutoCrop = !noAutoCrop
	}
	if flags.Changed("workers") {
		settings.Workers = workerCount
	}
	if flags.Changed("pages") {
		settings.Pages = pageSelection
	}

	return settings, nil
}

// writePages stores every encoded page under dir and describes them in a
// manifest.
func writePages(dir string, batch *converter.Batch, settings *config.Settings) (*manifest.Manifest, error) {
	cfg := settings.Pipeline
	m := manifest.New(manifest.Device{
		Name:   settings.Device,
		Width:  cfg.DeviceWidth,
		Height: cfg.DeviceHeight,
	}, cfg.ImageFormat().String())
	m.Settings = &manifest.Settings{
		Brightness:  cfg.Brightness,
		Gamma:       cfg.Gamma,
		AutoCrop:    cfg.AutoCrop,
		Split:       string(cfg.Split),
		RightToLeft: cfg.RightToLeft,
		MarginColor: string(cfg.MarginColor),
		Workers:     settings.Workers,
	}

	for _, page := range batch.Pages {
		path := filepath.Join(dir, filepath.FromSlash(page.FileName))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", page.FileName)
		}
		if err := os.WriteFile(path, page.Data, 0o644); err != nil {
			return nil, errors.Wrapf(err, "writing %s", page.FileName)
		}
		m.AddPage(page.FileName, page.Width, page.Height, int64(len(page.Data)), page.Checksum)
	}

	for _, f := range batch.Failures {
		m.Skipped = append(m.Skipped, manifest.Skipped{Entry: f.Entry, Reason: f.Err.Error()})
	}
	m.Stats.Processed = batch.Processed
	m.Stats.DurationMS = batch.Duration.Milliseconds()

	return m, nil
}
