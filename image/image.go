// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Encode writes RGBA 8bit data as png. The alpha channel is made opaque in
// place.
func Encode(w io.Writer, data []byte, width, height int) error {
	if len(data) < width*height*4 {
		return errors.Errorf("Tried to write an image but there is not enough data")
	}
	r := image.Rect(0, 0, width, height)
	img := &image.NRGBA{
		Pix:    data,
		Stride: 4 * width,
		Rect:   r,
	}
	// the framebuffer alpha carries no meaning
	for i := 3; i < width*height*4; i += 4 {
		img.Pix[i] = 255
	}
	return png.Encode(w, img)
}

// Write expects RGBA 8bit data
func Write(name string, data []byte, width, height int) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Encode(f, data, width, height); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", name)
	}
	return f.Close()
}

// NextName returns the first unused screenshot name in dir.
func NextName(dir string) (string, error) {
	for i := 0; i < 10000; i++ {
		n := filepath.Join(dir, fmt.Sprintf("lidefer%04d.png", i))
		if _, err := os.Stat(n); os.IsNotExist(err) {
			return n, nil
		}
	}
	return "", errors.Errorf("no free screenshot name in %s", dir)
}

// Screenshot writes the data to the next free name in dir and returns it.
func Screenshot(dir string, data []byte, width, height int) (string, error) {
	n, err := NextName(dir)
	if err != nil {
		return "", err
	}
	return n, Write(n, data, width, height)
}
