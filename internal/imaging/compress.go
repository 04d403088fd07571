package imaging

import "github.com/h2non/bimg"

// Compressor downscales and re-encodes an uploaded image before it is
// stored. Uploads arrive at camera resolution; the game only ever shows
// thumbnails and full-screen views on phones.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// JPEGCompressor caps the long side at MaxSide pixels and re-encodes as
// JPEG at Quality, whatever the input format was.
type JPEGCompressor struct {
	MaxSide int
	Quality int
}

func (c JPEGCompressor) Compress(data []byte) ([]byte, error) {
	image := bimg.NewImage(data)
	size, err := image.Size()
	if err != nil {
		return nil, err
	}
	options := bimg.Options{
		Type:    bimg.JPEG,
		Quality: c.Quality,
	}
	longSide := size.Width
	if size.Height > longSide {
		longSide = size.Height
	}
	if c.MaxSide > 0 && longSide > c.MaxSide {
		scale := float64(c.MaxSide) / float64(longSide)
		options.Width = int(float64(size.Width)*scale + 0.5)
		options.Height = int(float64(size.Height)*scale + 0.5)
	}
	return image.Process(options)
}
