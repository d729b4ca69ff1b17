// Package opencv loads zone masks through OpenCV, which reads more image
// formats than the Go decoders.
package opencv

import (
	"fmt"
	"log/slog"

	"graphfield/internal/mask"

	"gocv.io/x/gocv"
)

// Load reads path as grayscale and applies a binary threshold. Pixels whose
// gray level is strictly above threshold become true.
func Load(path string, threshold uint8) (*mask.Mask, error) {
	gray := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer gray.Close()
	if gray.Empty() {
		return nil, fmt.Errorf("opencv: cannot read %s", path)
	}

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, float32(threshold), 255, gocv.ThresholdBinary)

	m, err := mask.New(binary.Rows(), binary.Cols())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for y := 0; y < binary.Rows(); y++ {
		for x := 0; x < binary.Cols(); x++ {
			if binary.GetUCharAt(y, x) > 0 {
				m.Set(y, x, true)
			}
		}
	}
	slog.Info("loaded mask with opencv", "path", path, "cols", m.Cols(), "rows", m.Rows(), "threshold", threshold)
	return m, nil
}

// LoaderFor returns the mask loader named by a field config: "opencv"
// selects Load, anything else the pure Go decoder.
func LoaderFor(name string) mask.Loader {
	if name == "opencv" {
		return Load
	}
	return mask.Load
}
