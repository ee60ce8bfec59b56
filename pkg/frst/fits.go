package frst

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// FITSImage is the primary HDU of a FITS file, reduced to unsigned samples.
type FITSImage struct {
	Samples  []uint16
	Width    int
	Height   int
	BitDepth int
	Header   map[string]string
}

// BayerPattern returns the BAYERPAT header value, upper-cased, or "".
func (f *FITSImage) BayerPattern() string {
	return strings.ToUpper(strings.TrimSpace(f.Header["BAYERPAT"]))
}

// Gray converts the samples to 8-bit intensity. Raw RGGB frames are
// debayered to luminance first.
func (f *FITSImage) Gray(stretch bool) *image.Gray {
	if f.BayerPattern() == "RGGB" {
		lum := DebayerRGGB(f.Samples, f.Width, f.Height)
		return GrayFromSamples(lum, f.BitDepth, f.Width, f.Height, stretch)
	}
	return GrayFromSamples(f.Samples, f.BitDepth, f.Width, f.Height, stretch)
}

// ReadFITS reads a FITS file from disk.
func ReadFITS(filePath string) (*FITSImage, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening FITS file: %w", err)
	}
	defer f.Close()
	return DecodeFITS(f)
}

// ReadFITSFromBytes reads a FITS file held in memory.
func ReadFITSFromBytes(data []byte) (*FITSImage, error) {
	return DecodeFITS(bytes.NewReader(data))
}

// IsFITS reports whether data starts with a FITS primary header.
func IsFITS(data []byte) bool {
	return len(data) >= 30 && string(data[:6]) == "SIMPLE"
}

// DecodeFITS parses header records (2880-byte blocks of 80-byte cards) and
// the pixel array of the primary HDU. BITPIX 8, 16, 32 and -32 are
// supported; BZERO/BSCALE are applied and values clamped to 0..65535.
func DecodeFITS(r io.Reader) (*FITSImage, error) {
	var bitpix, naxis, width, height int
	bzero := 0.0
	bscale := 1.0
	header := make(map[string]string)

	card := make([]byte, 80)
	for headerDone := false; !headerDone; {
		for i := 0; i < 36; i++ {
			if _, err := io.ReadFull(r, card); err != nil {
				return nil, fmt.Errorf("reading FITS header card: %w", err)
			}
			record := string(card)
			keyword := strings.TrimSpace(record[:8])

			if keyword == "END" {
				headerDone = true
				if remaining := 35 - i; remaining > 0 {
					if _, err := io.CopyN(io.Discard, r, int64(remaining*80)); err != nil {
						return nil, fmt.Errorf("skipping FITS header padding: %w", err)
					}
				}
				break
			}
			if record[8] != '=' || record[9] != ' ' {
				continue
			}

			rawValue := strings.TrimSpace(strings.SplitN(record[10:], "/", 2)[0])
			if v := parseFITSValue(rawValue); keyword != "" && v != "" {
				header[strings.ToUpper(keyword)] = v
			}
			switch keyword {
			case "BITPIX":
				bitpix, _ = strconv.Atoi(rawValue)
			case "NAXIS":
				naxis, _ = strconv.Atoi(rawValue)
			case "NAXIS1":
				width, _ = strconv.Atoi(rawValue)
			case "NAXIS2":
				height, _ = strconv.Atoi(rawValue)
			case "BZERO":
				bzero, _ = strconv.ParseFloat(rawValue, 64)
			case "BSCALE":
				bscale, _ = strconv.ParseFloat(rawValue, 64)
			}
		}
	}

	if naxis < 2 || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid FITS: NAXIS=%d, NAXIS1=%d, NAXIS2=%d", naxis, width, height)
	}

	bytesPerSample := 0
	var sample func(b []byte) float64
	switch bitpix {
	case 8:
		bytesPerSample = 1
		sample = func(b []byte) float64 { return float64(b[0]) }
	case 16:
		bytesPerSample = 2
		sample = func(b []byte) float64 { return float64(int16(binary.BigEndian.Uint16(b))) }
	case 32:
		bytesPerSample = 4
		sample = func(b []byte) float64 { return float64(int32(binary.BigEndian.Uint32(b))) }
	case -32:
		bytesPerSample = 4
		sample = func(b []byte) float64 { return float64(math.Float32frombits(binary.BigEndian.Uint32(b))) }
	default:
		return nil, fmt.Errorf("unsupported BITPIX: %d", bitpix)
	}

	numPixels := width * height
	raw := make([]byte, numPixels*bytesPerSample)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("reading BITPIX=%d pixel data: %w", bitpix, err)
	}
	samples := make([]uint16, numPixels)
	for i := range samples {
		physical := sample(raw[i*bytesPerSample:])*bscale + bzero
		samples[i] = uint16(clampFloat64(physical, 0, 65535))
	}

	bitDepth := 16
	if bitpix == 8 {
		bitDepth = 8
	}
	return &FITSImage{
		Samples:  samples,
		Width:    width,
		Height:   height,
		BitDepth: bitDepth,
		Header:   header,
	}, nil
}

func parseFITSValue(rawValue string) string {
	switch {
	case rawValue == "":
		return ""
	case rawValue == "T":
		return "True"
	case rawValue == "F":
		return "False"
	case strings.HasPrefix(rawValue, "'"):
		if endQuote := strings.LastIndex(rawValue, "'"); endQuote > 0 {
			return strings.TrimRight(rawValue[1:endQuote], " ")
		}
		return strings.TrimLeft(strings.TrimRight(rawValue, " "), "'")
	}
	return rawValue
}
