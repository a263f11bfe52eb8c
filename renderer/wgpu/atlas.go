// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// atlasSize is the square mask atlas dimension in pixels.
const atlasSize = 1024

// atlasPad is the empty border around each packed mask, so linear
// sampling never bleeds between neighbors.
const atlasPad = 1

// atlasSlot is a packed region inside the mask atlas.
type atlasSlot struct {
	x, y, w, h int
}

// maskKey identifies a rasterized glyph mask by font, glyph and pixel
// size (float bits, so distinct sizes never collide).
type maskKey struct {
	source uint64
	gid    uint32
	size   uint32
}

// maskAtlas packs 8-bit coverage masks into one R8 texture using shelf
// packing. The CPU copy is uploaded wholesale when dirty; when the
// atlas fills up it is reset and repopulated on demand.
type maskAtlas struct {
	device hal.Device
	queue  hal.Queue

	tex  hal.Texture
	view hal.TextureView

	buf   []byte
	dirty bool

	entries      map[maskKey]atlasSlot
	penX, shelfY int
	shelfH       int
}

func newMaskAtlas(device hal.Device, queue hal.Queue) (*maskAtlas, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "ui_mask_atlas",
		Size:          hal.Extent3D{Width: atlasSize, Height: atlasSize, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create mask atlas: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "ui_mask_atlas_view",
		Format:        gputypes.TextureFormatR8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create mask atlas view: %w", err)
	}
	return &maskAtlas{
		device:  device,
		queue:   queue,
		tex:     tex,
		view:    view,
		buf:     make([]byte, atlasSize*atlasSize),
		entries: make(map[maskKey]atlasSlot),
	}, nil
}

// lookup returns the packed slot for a key if present.
func (a *maskAtlas) lookup(k maskKey) (atlasSlot, bool) {
	s, ok := a.entries[k]
	return s, ok
}

// insert packs an alpha mask and records it under the key. A full atlas
// is reset first; masks larger than the atlas are rejected.
func (a *maskAtlas) insert(k maskKey, alpha *image.Alpha) (atlasSlot, bool) {
	b := alpha.Bounds()
	w, h := b.Dx(), b.Dy()
	if w+2*atlasPad > atlasSize || h+2*atlasPad > atlasSize {
		return atlasSlot{}, false
	}

	slot, ok := a.reserve(w+2*atlasPad, h+2*atlasPad)
	if !ok {
		a.reset()
		slot, ok = a.reserve(w+2*atlasPad, h+2*atlasPad)
		if !ok {
			return atlasSlot{}, false
		}
	}
	slot = atlasSlot{x: slot.x + atlasPad, y: slot.y + atlasPad, w: w, h: h}

	for y := 0; y < h; y++ {
		row := a.buf[(slot.y+y)*atlasSize+slot.x:]
		src := alpha.Pix[alpha.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(row[:w], src[:w])
	}
	a.dirty = true
	a.entries[k] = slot
	return slot, true
}

// reserve finds space for a w x h region with shelf packing.
func (a *maskAtlas) reserve(w, h int) (atlasSlot, bool) {
	if a.penX+w > atlasSize {
		a.shelfY += a.shelfH
		a.penX = 0
		a.shelfH = 0
	}
	if a.shelfY+h > atlasSize {
		return atlasSlot{}, false
	}
	s := atlasSlot{x: a.penX, y: a.shelfY, w: w, h: h}
	a.penX += w
	if h > a.shelfH {
		a.shelfH = h
	}
	return s, true
}

// reset drops every packed mask and clears the CPU copy.
func (a *maskAtlas) reset() {
	for i := range a.buf {
		a.buf[i] = 0
	}
	a.entries = make(map[maskKey]atlasSlot)
	a.penX, a.shelfY, a.shelfH = 0, 0, 0
	a.dirty = true
}

// flush uploads the CPU copy to the GPU texture if anything changed.
func (a *maskAtlas) flush() {
	if !a.dirty {
		return
	}
	a.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: a.tex, MipLevel: 0},
		a.buf,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: atlasSize, RowsPerImage: atlasSize},
		&hal.Extent3D{Width: atlasSize, Height: atlasSize, DepthOrArrayLayers: 1},
	)
	a.dirty = false
}

func (a *maskAtlas) destroy() {
	if a.view != nil {
		a.device.DestroyTextureView(a.view)
		a.view = nil
	}
	if a.tex != nil {
		a.device.DestroyTexture(a.tex)
		a.tex = nil
	}
	a.buf = nil
	a.entries = nil
}

// imageTexture is one uploaded resource texture with its bind group.
type imageTexture struct {
	tex       hal.Texture
	view      hal.TextureView
	bindGroup hal.BindGroup
	w, h      int
}

// imageCacheLimit bounds the number of resident resource textures.
const imageCacheLimit = 128

// imageCache keeps one RGBA texture per decoded resource. Eviction is a
// wholesale drop past the limit, matching the glyph mask cache.
type imageCache struct {
	device  hal.Device
	queue   hal.Queue
	entries map[string]*imageTexture
}

func newImageCache(device hal.Device, queue hal.Queue) *imageCache {
	return &imageCache{
		device:  device,
		queue:   queue,
		entries: make(map[string]*imageTexture),
	}
}

// get returns the cached texture for a resource, uploading it on first
// use. The bind group is created by the supplied function so the cache
// stays independent of pipeline layout.
func (c *imageCache) get(id string, src image.Image, makeBind func(view hal.TextureView) (hal.BindGroup, error)) (*imageTexture, error) {
	if e, ok := c.entries[id]; ok {
		return e, nil
	}
	if len(c.entries) >= imageCacheLimit {
		c.destroyEntries()
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("wgpu: empty image %q", id)
	}

	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Bounds() != image.Rect(0, 0, w, h) {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				rgba.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	}

	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "ui_image_" + id,
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create image texture %q: %w", id, err)
	}
	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "ui_image_view_" + id,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create image view %q: %w", id, err)
	}

	c.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		rgba.Pix,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(rgba.Stride), RowsPerImage: uint32(h)},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)

	bg, err := makeBind(view)
	if err != nil {
		c.device.DestroyTextureView(view)
		c.device.DestroyTexture(tex)
		return nil, err
	}

	e := &imageTexture{tex: tex, view: view, bindGroup: bg, w: w, h: h}
	c.entries[id] = e
	return e, nil
}

func (c *imageCache) destroyEntries() {
	for _, e := range c.entries {
		if e.bindGroup != nil {
			c.device.DestroyBindGroup(e.bindGroup)
		}
		if e.view != nil {
			c.device.DestroyTextureView(e.view)
		}
		if e.tex != nil {
			c.device.DestroyTexture(e.tex)
		}
	}
	c.entries = make(map[string]*imageTexture)
}

func (c *imageCache) destroy() {
	c.destroyEntries()
	c.entries = nil
}
