package texture

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"

	// decoders of formats accepted for conversion
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pkg/errors"

	"github.com/mogaika/scene_encoder/utils"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type Info struct {
	Path        string
	IsPNG       bool
	Format      string
	Width       int
	Height      int
	PowerOfTwo  bool
	Transparent bool
}

func IsPNGFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "Can't open %q", path)
	}
	defer f.Close()

	header := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(f, header); err != nil {
		return false, nil
	}
	return bytes.Equal(header, pngSignature), nil
}

// Inspect decodes image at path and reports its properties
func Inspect(path string) (*Info, error) {
	isPNG, err := IsPNGFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open %q", path)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't decode image %q", path)
	}

	b := img.Bounds()
	return &Info{
		Path:        path,
		IsPNG:       isPNG,
		Format:      format,
		Width:       b.Dx(),
		Height:      b.Dy(),
		PowerOfTwo:  utils.IsPowerOfTwo(b.Dx()) && utils.IsPowerOfTwo(b.Dy()),
		Transparent: hasTransparency(img),
	}, nil
}

func hasTransparency(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// ConvertToPNG decodes any supported image and writes it as png to dst
func ConvertToPNG(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "Can't open %q", src)
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return errors.Wrapf(err, "Can't decode image %q", src)
	}

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "Can't create %q", dst)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return errors.Wrapf(err, "Can't encode png %q", dst)
	}
	return nil
}

// CopyFile copies src to dst, replacing dst
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "Can't open %q", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "Can't create %q", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "Can't copy %q to %q", src, dst)
	}
	return nil
}
