package loader

import (
	"encoding/binary"
	"fmt"
)

// AppBlob is the host-testable stand-in for the linker-provided
// _num_app symbol and the concatenated app images that follow it in
// the kernel image: a count, a table of N+1 cumulative byte offsets,
// and the images themselves back to back. cmd/mkimage produces this
// exact layout; AppBlob is the only thing that reads it back.
type AppBlob struct {
	offsets []uint64
	images  []byte
}

// LoadBlob parses the layout cmd/mkimage writes: an 8-byte app count N
// in little-endian, followed by N+1 little-endian 8-byte offsets into
// the image data that follows immediately after them.
func LoadBlob(raw []byte) (*AppBlob, error) {
	if len(raw) < 8 {
		return nil, fmt.Errorf("loader: blob too short for app count")
	}
	n := binary.LittleEndian.Uint64(raw[:8])
	tableEnd := 8 + (n+1)*8
	if uint64(len(raw)) < tableEnd {
		return nil, fmt.Errorf("loader: blob too short for offset table of %d apps", n)
	}
	offsets := make([]uint64, n+1)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint64(raw[8+8*uint64(i):])
	}
	images := raw[tableEnd:]
	for i := uint64(0); i < n; i++ {
		if offsets[i] > offsets[i+1] || offsets[i+1] > uint64(len(images)) {
			return nil, fmt.Errorf("loader: app %d has an invalid offset range [%d, %d)", i, offsets[i], offsets[i+1])
		}
	}
	return &AppBlob{offsets: offsets, images: images}, nil
}

// NumApps returns how many application images the blob carries.
func (b *AppBlob) NumApps() int { return len(b.offsets) - 1 }

// AppImage returns the raw ELF bytes of the i'th application.
func (b *AppBlob) AppImage(i int) []byte {
	return b.images[b.offsets[i]:b.offsets[i+1]]
}

// BuildBlob is the inverse of LoadBlob: it lays out images in the same
// format cmd/mkimage writes, for use by tests and by cmd/mkimage itself.
func BuildBlob(images [][]byte) []byte {
	n := uint64(len(images))
	var buf []byte
	header := make([]byte, 8+(n+1)*8)
	binary.LittleEndian.PutUint64(header[:8], n)

	var off uint64
	for i, img := range images {
		binary.LittleEndian.PutUint64(header[8+8*uint64(i):], off)
		off += uint64(len(img))
	}
	binary.LittleEndian.PutUint64(header[8+8*n:], off)

	buf = append(buf, header...)
	for _, img := range images {
		buf = append(buf, img...)
	}
	return buf
}
