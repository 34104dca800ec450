package tags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2/flac"
	"github.com/llehouerou/go-m4a"
	"github.com/llehouerou/go-mp3"
	"go.senan.xyz/taglib"
)

// opusSampleRate is the granule rate of every Ogg Opus stream.
const opusSampleRate = 48000

// ReadDuration returns the playing time of a music file. It reads stream
// headers where the container allows and falls back to TagLib.
func ReadDuration(path string) (time.Duration, error) {
	if !IsMusicFile(path) {
		return 0, fmt.Errorf("unsupported format: %s", ext(path))
	}

	var (
		d   time.Duration
		err error
	)
	switch ext(path) {
	case ExtMP3:
		d, err = mp3Duration(path)
	case ExtFLAC:
		d, err = flacDuration(path)
	case ExtOPUS, ExtOGG, ExtOGA:
		d, err = oggDuration(path)
	case ExtM4A, ExtMP4:
		d, err = m4aDuration(path)
	}
	if err == nil && d > 0 {
		return d, nil
	}

	props, perr := taglib.ReadProperties(path)
	if perr != nil {
		if err != nil {
			return 0, err
		}
		return 0, perr
	}
	return props.Length, nil
}

func mp3Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return 0, errors.New("mp3: invalid sample rate")
	}
	sampleCount := max(decoder.SampleCount(), 0)

	return time.Duration(float64(sampleCount) / float64(sampleRate) * float64(time.Second)), nil
}

// flacDuration reads the STREAMINFO block, falling back to beep's decoder
// for files go-flac rejects (e.g. with a prepended ID3v2 tag).
func flacDuration(path string) (time.Duration, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return flacDurationWithBeep(path)
	}

	for _, meta := range f.Meta {
		if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
			continue
		}
		data := meta.Data

		// Sample rate: 20 bits starting at byte 10
		sampleRate := int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
		// Total samples: 36 bits starting at the low nibble of byte 13
		totalSamples := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17])

		if sampleRate == 0 || totalSamples == 0 {
			break
		}
		return time.Duration(float64(totalSamples) / float64(sampleRate) * float64(time.Second)), nil
	}

	return flacDurationWithBeep(path)
}

func flacDurationWithBeep(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := skipID3v2(f); err != nil {
		return 0, err
	}

	streamer, format, err := flac.Decode(f)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// oggDuration reads the granule position of the last Ogg page.
func oggDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}

	// The last page is within the final 64KB
	searchSize := min(int64(65536), fi.Size())
	if _, err := f.Seek(-searchSize, io.SeekEnd); err != nil {
		return 0, err
	}

	buf := make([]byte, searchSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, err
	}
	buf = buf[:n]

	granule := lastGranule(buf)
	if granule <= 0 {
		return 0, errors.New("could not determine ogg duration")
	}
	return time.Duration(float64(granule) / opusSampleRate * float64(time.Second)), nil
}

// lastGranule scans backwards for an OggS page header and returns its
// little-endian granule position.
func lastGranule(buf []byte) int64 {
	for i := len(buf) - 27; i >= 0; i-- {
		if buf[i] != 'O' || buf[i+1] != 'g' || buf[i+2] != 'g' || buf[i+3] != 'S' {
			continue
		}
		var g int64
		for b := 7; b >= 0; b-- {
			g = g<<8 | int64(buf[i+6+b])
		}
		return g
	}
	return 0
}

func m4aDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	container, err := m4a.Open(f)
	if err != nil {
		return 0, err
	}
	return container.Duration(), nil
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}

	size := id3v2Size(header[:n])
	_, err = r.Seek(size, io.SeekStart)
	return err
}
