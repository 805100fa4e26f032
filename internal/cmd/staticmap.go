package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geolens/geolens/internal/core"
)

var (
	staticmapZoom  int
	staticmapSize  string
	staticmapFetch bool
	staticmapOut   string
	staticmapThumb int
)

var staticmapCmd = &cobra.Command{
	Use:   "staticmap \"lat,lng\"",
	Short: "Build (and optionally download) a static map image URL",
	Long: `Build a static map URL centered on a coordinate with a marker. With
--fetch the image is downloaded through the rate-limited gateway and
written to --out; --thumb additionally writes a scaled-down copy next
to it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := core.ParseCoordinate(args[0])
		if err != nil {
			return err
		}
		if staticmapFetch && staticmapOut == "" {
			return errors.New("--fetch requires --out")
		}

		svc, err := buildServices(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer svc.close()

		rawURL, err := svc.staticMap.PinURL(coord, staticmapZoom, staticmapSize)
		if err != nil {
			return err
		}

		if !staticmapFetch {
			fmt.Println(rawURL)
			return nil
		}

		body, contentType, err := svc.staticMap.Fetch(cmd.Context(), rawURL)
		if err != nil {
			return err
		}
		if err := os.WriteFile(staticmapOut, body, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d bytes, %s)\n", staticmapOut, len(body), contentType)

		if staticmapThumb > 0 {
			thumbPath := thumbnailPath(staticmapOut)
			if err := writeThumbnail(staticmapOut, thumbPath, staticmapThumb); err != nil {
				return fmt.Errorf("thumbnail: %w", err)
			}
			fmt.Printf("wrote %s\n", thumbPath)
		}
		return nil
	},
}

func thumbnailPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + ".thumbnail" + ext
}

func init() {
	rootCmd.AddCommand(staticmapCmd)
	staticmapCmd.Flags().IntVar(&staticmapZoom, "zoom", 12, "zoom level (1-20)")
	staticmapCmd.Flags().StringVar(&staticmapSize, "size", "640x480", "image size as WxH pixels")
	staticmapCmd.Flags().BoolVar(&staticmapFetch, "fetch", false, "download the image instead of printing the URL")
	staticmapCmd.Flags().StringVar(&staticmapOut, "out", "", "output file for the downloaded image")
	staticmapCmd.Flags().IntVar(&staticmapThumb, "thumb", 0, "also write a thumbnail with this max dimension (64-1024)")
}
