// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements the GPU backend on the wgpu HAL.
//
// Rects travel through an SDF render pipeline, text and images through
// a textured quad pipeline; both share one shader module, one bind
// group layout and one per-frame uniform buffer. Frames render into a
// 4x MSAA target, resolve, and read back over a staging buffer.
//
// Importing the package registers the backend:
//
//	import _ "github.com/gogpu/ui/renderer/wgpu"
package wgpu

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/internal/glyphmask"
	"github.com/gogpu/ui/renderer"
	"github.com/gogpu/ui/scene"
)

// BackendName is the registry identifier.
const BackendName = "wgpu"

// fenceTimeout bounds the per-frame GPU wait.
const fenceTimeout = 5 * time.Second

func init() {
	renderer.Register(BackendName, 100, func(opts renderer.Options) (renderer.Backend, error) {
		return New(opts)
	}, nil)
}

// pipeline selector for recorded draws.
const (
	pipeRect = iota
	pipeTex
)

// frameDraw is one recorded draw call: a vertex range in the pipeline's
// frame buffer plus the bind group it samples with.
type frameDraw struct {
	pipe  int
	bind  hal.BindGroup
	first uint32
	count uint32
}

// Renderer renders scenes on a wgpu HAL device.
type Renderer struct {
	gpu   *gpuContext
	pipes *pipelines
	tgt   targets

	atlas  *maskAtlas
	imgTex *imageCache
	glyphs *glyphmask.Cache

	uniformBuf hal.Buffer
	atlasBind  hal.BindGroup

	width, height int
	format        renderer.SurfaceFormat
	images        renderer.ImageSource

	img *image.RGBA

	// pathSeq keys transient path masks within the atlas.
	pathSeq uint32
}

// New creates the GPU backend, opening a Vulkan device unless
// opts.Device supplies a shared one.
func New(opts renderer.Options) (*Renderer, error) {
	gpu, err := acquireDevice(opts.Device)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		gpu:    gpu,
		format: opts.Format,
		images: opts.Images,
		glyphs: glyphmask.NewCache(),
	}

	r.pipes, err = createPipelines(gpu.device)
	if err != nil {
		gpu.destroy()
		return nil, err
	}
	r.atlas, err = newMaskAtlas(gpu.device, gpu.queue)
	if err != nil {
		r.Destroy()
		return nil, err
	}
	r.imgTex = newImageCache(gpu.device, gpu.queue)

	r.uniformBuf, err = gpu.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ui_globals",
		Size:  renderer.GlobalUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}

	r.atlasBind, err = r.makeBindGroup("ui_atlas_bind", r.atlas.view)
	if err != nil {
		r.Destroy()
		return nil, err
	}

	if err := r.Resize(opts.Width, opts.Height); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

// Name returns the registry identifier.
func (r *Renderer) Name() string { return BackendName }

// Resize sets the surface size in device pixels. Render targets are
// recreated lazily on the next frame.
func (r *Renderer) Resize(width, height int) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	r.width, r.height = width, height
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Destroy releases every GPU resource. Safe on partially constructed
// state.
func (r *Renderer) Destroy() {
	if r.gpu == nil || r.gpu.device == nil {
		return
	}
	if r.atlasBind != nil {
		r.gpu.device.DestroyBindGroup(r.atlasBind)
		r.atlasBind = nil
	}
	if r.uniformBuf != nil {
		r.gpu.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.imgTex != nil {
		r.imgTex.destroy()
		r.imgTex = nil
	}
	if r.atlas != nil {
		r.atlas.destroy()
		r.atlas = nil
	}
	r.tgt.destroy()
	if r.pipes != nil {
		r.pipes.destroy()
		r.pipes = nil
	}
	r.gpu.destroy()
	r.img = nil
}

// Snapshot returns a copy of the last rendered frame.
func (r *Renderer) Snapshot() *image.RGBA {
	if r.img == nil {
		return nil
	}
	out := image.NewRGBA(r.img.Rect)
	copy(out.Pix, r.img.Pix)
	return out
}

// makeBindGroup builds the standard uniform + texture + sampler group
// for a texture view.
func (r *Renderer) makeBindGroup(label string, view hal.TextureView) (hal.BindGroup, error) {
	bg, err := r.gpu.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: r.pipes.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: renderer.GlobalUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: r.pipes.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group %s: %w", label, err)
	}
	return bg, nil
}

// Render encodes and submits one frame, then reads the pixels back.
// Submission failures report the device as lost so callers can fall
// back to another backend.
func (r *Renderer) Render(ctx context.Context, sc *scene.Scene) error {
	if r.gpu == nil || r.gpu.device == nil {
		return renderer.ErrDeviceLost
	}

	scale := sc.Scale
	if scale <= 0 {
		scale = 1
	}

	var rectVerts, texVerts vertexWriter
	var draws []frameDraw
	for i := range sc.Primitives {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := &sc.Primitives[i]
		clip := noClip
		if p.HasClip {
			clip = scaleRect(p.Clip, scale)
		}
		switch p.Kind {
		case scene.KindRect:
			r.buildRect(&rectVerts, &draws, p, scale, clip)
		case scene.KindSolid:
			r.buildQuad(&texVerts, &draws, scaleRect(p.Rect, scale), p.Color, texModeSolid, clip)
		case scene.KindGlyphRun:
			r.buildGlyphs(&texVerts, &draws, p, scale, clip)
		case scene.KindImage:
			r.buildImage(&texVerts, &draws, p, scale, clip)
		case scene.KindPath:
			r.buildPath(&texVerts, &draws, p, scale, clip)
		}
	}

	r.atlas.flush()

	uni := renderer.NewGlobalUniform(sc.Viewport, scale, r.format)
	r.gpu.queue.WriteBuffer(r.uniformBuf, 0, uni.Bytes())

	if err := r.encodeFrame(rectVerts.buf, texVerts.buf, draws); err != nil {
		return fmt.Errorf("%w: %v", renderer.ErrDeviceLost, err)
	}
	return nil
}

// pushDraw records a draw, merging with the previous one when pipeline
// and bind group match.
func pushDraw(draws *[]frameDraw, pipe int, bind hal.BindGroup, first, count uint32) {
	if n := len(*draws); n > 0 {
		last := &(*draws)[n-1]
		if last.pipe == pipe && last.bind == bind && last.first+last.count == first {
			last.count += count
			return
		}
	}
	*draws = append(*draws, frameDraw{pipe: pipe, bind: bind, first: first, count: count})
}

func (r *Renderer) buildRect(w *vertexWriter, draws *[]frameDraw, p *scene.Primitive, scale float32, clip ui.Rect) {
	b := p.BorderWidths
	hasBorder := (b.Top > 0 && p.BorderColors.Top.A > 0) ||
		(b.Right > 0 && p.BorderColors.Right.A > 0) ||
		(b.Bottom > 0 && p.BorderColors.Bottom.A > 0) ||
		(b.Left > 0 && p.BorderColors.Left.A > 0)
	if p.Color.A <= 0 && !hasBorder {
		return
	}

	first := uint32(len(w.buf) / rectVertexStride)
	appendRectQuad(w,
		scaleRect(p.Rect, scale),
		ui.CornerRadii{
			TopLeft:     p.Radii.TopLeft * scale,
			TopRight:    p.Radii.TopRight * scale,
			BottomRight: p.Radii.BottomRight * scale,
			BottomLeft:  p.Radii.BottomLeft * scale,
		},
		ui.Insets{
			Top:    b.Top * scale,
			Right:  b.Right * scale,
			Bottom: b.Bottom * scale,
			Left:   b.Left * scale,
		},
		clip, p.Color, p.BorderColors)
	pushDraw(draws, pipeRect, r.atlasBind, first, 6)
}

// buildQuad emits one untextured quad through the tex pipeline.
func (r *Renderer) buildQuad(w *vertexWriter, draws *[]frameDraw, quad ui.Rect, c ui.Color, mode float32, clip ui.Rect) {
	if c.A <= 0 {
		return
	}
	first := uint32(len(w.buf) / texVertexStride)
	appendTexQuad(w, quad, ui.Rect{}, c, mode, clip)
	pushDraw(draws, pipeTex, r.atlasBind, first, 6)
}

func (r *Renderer) buildGlyphs(w *vertexWriter, draws *[]frameDraw, p *scene.Primitive, scale float32, clip ui.Rect) {
	if p.FontSource == nil || p.Color.A <= 0 {
		return
	}
	ppem := p.FontSize * scale
	for _, g := range p.Glyphs {
		mask, mok := r.glyphs.Mask(p.FontSource, g.ID, ppem)
		if !mok || mask.Alpha == nil {
			continue
		}
		k := maskKey{source: p.FontSource.ID(), gid: g.ID, size: f32bits(ppem)}
		slot, ok := r.atlas.lookup(k)
		if !ok {
			slot, ok = r.atlas.insert(k, mask.Alpha)
			if !ok {
				continue
			}
		}

		dx := float32(roundInt((p.Origin.X+g.X)*scale) + mask.Offset.X)
		dy := float32(roundInt((p.Origin.Y+g.Y)*scale) + mask.Offset.Y)
		quad := ui.Rect{MinX: dx, MinY: dy, MaxX: dx + float32(slot.w), MaxY: dy + float32(slot.h)}

		first := uint32(len(w.buf) / texVertexStride)
		appendTexQuad(w, quad, slotUV(slot), p.Color, texModeMask, clip)
		pushDraw(draws, pipeTex, r.atlasBind, first, 6)
	}
}

func (r *Renderer) buildImage(w *vertexWriter, draws *[]frameDraw, p *scene.Primitive, scale float32, clip ui.Rect) {
	var src image.Image
	if r.images != nil {
		src, _ = r.images.Image(p.Resource)
	}
	quad := scaleRect(p.Rect, scale)
	if src == nil {
		r.buildQuad(w, draws, quad, placeholderColor, texModeFill, clip)
		return
	}
	entry, err := r.imgTex.get(p.Resource, src, func(view hal.TextureView) (hal.BindGroup, error) {
		return r.makeBindGroup("ui_image_bind_"+p.Resource, view)
	})
	if err != nil {
		r.buildQuad(w, draws, quad, placeholderColor, texModeFill, clip)
		return
	}
	first := uint32(len(w.buf) / texVertexStride)
	appendTexQuad(w, quad, ui.Rect{MaxX: 1, MaxY: 1}, ui.White, texModeImage, clip)
	pushDraw(draws, pipeTex, entry.bindGroup, first, 6)
}

func (r *Renderer) buildPath(w *vertexWriter, draws *[]frameDraw, p *scene.Primitive, scale float32, clip ui.Rect) {
	if p.Path.IsEmpty() || p.Color.A <= 0 {
		return
	}
	alpha, origin, ok := pathMask(p.Path, scale)
	if !ok {
		return
	}
	// Path masks are transient: key them by a running sequence so they
	// never collide with glyphs. Stale entries vanish on atlas reset.
	r.pathSeq++
	k := maskKey{source: ^uint64(0), gid: r.pathSeq, size: 0}
	slot, ok := r.atlas.insert(k, alpha)
	if !ok {
		return
	}

	quad := ui.Rect{
		MinX: float32(origin.X), MinY: float32(origin.Y),
		MaxX: float32(origin.X + slot.w), MaxY: float32(origin.Y + slot.h),
	}
	first := uint32(len(w.buf) / texVertexStride)
	appendTexQuad(w, quad, slotUV(slot), p.Color, texModeCoverage, clip)
	pushDraw(draws, pipeTex, r.atlasBind, first, 6)
}

// encodeFrame uploads vertex data, records the render pass and reads
// the resolved pixels back into the frame image.
func (r *Renderer) encodeFrame(rectData, texData []byte, draws []frameDraw) error {
	w := uint32(r.width)
	h := uint32(r.height)
	if err := r.tgt.ensure(r.gpu.device, w, h); err != nil {
		return err
	}

	var rectBuf, texBuf hal.Buffer
	var err error
	if len(rectData) > 0 {
		rectBuf, err = r.uploadBuffer("ui_rect_verts", rectData)
		if err != nil {
			return err
		}
		defer r.gpu.device.DestroyBuffer(rectBuf)
	}
	if len(texData) > 0 {
		texBuf, err = r.uploadBuffer("ui_tex_verts", texData)
		if err != nil {
			return err
		}
		defer r.gpu.device.DestroyBuffer(texBuf)
	}

	encoder, err := r.gpu.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "ui_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("ui_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "ui_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:          r.tgt.msaaView,
				ResolveTarget: r.tgt.resolveView,
				LoadOp:        gputypes.LoadOpClear,
				StoreOp:       gputypes.StoreOpStore,
				ClearValue:    gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	lastPipe := -1
	var lastBind hal.BindGroup
	for _, d := range draws {
		if d.pipe != lastPipe {
			switch d.pipe {
			case pipeRect:
				rp.SetPipeline(r.pipes.rect)
				rp.SetVertexBuffer(0, rectBuf, 0)
			case pipeTex:
				rp.SetPipeline(r.pipes.tex)
				rp.SetVertexBuffer(0, texBuf, 0)
			}
			lastPipe = d.pipe
			lastBind = nil
		}
		if d.bind != lastBind {
			rp.SetBindGroup(0, d.bind, nil)
			lastBind = d.bind
		}
		rp.Draw(d.count, 1, d.first, 0)
	}
	rp.End()

	// The resolve texture leaves the pass in attachment layout; the
	// copy below needs transfer source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.tgt.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	pixelBufSize := uint64(w) * uint64(h) * 4
	stagingBuf, err := r.gpu.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ui_staging",
		Size:  pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer r.gpu.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(r.tgt.resolveTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: r.tgt.resolveTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.gpu.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.gpu.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.gpu.device.DestroyFence(fence)

	if err := r.gpu.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.gpu.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%v", fenceOK, err)
	}

	readback := make([]byte, pixelBufSize)
	if err := r.gpu.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}

	decodeBGRA(readback, r.img, r.format)
	return nil
}

// uploadBuffer creates a vertex buffer and writes the data.
func (r *Renderer) uploadBuffer(label string, data []byte) (hal.Buffer, error) {
	buf, err := r.gpu.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	r.gpu.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

var placeholderColor = ui.RGBA(0.8, 0.8, 0.8, 1)

// decodeBGRA converts premultiplied BGRA readback bytes into the frame
// image. An sRGB surface blends in linear light, so its pixels are
// encoded to sRGB here, the same final step the software backend takes.
func decodeBGRA(src []byte, dst *image.RGBA, format renderer.SurfaceFormat) {
	n := len(src) / 4
	for i := 0; i < n; i++ {
		b := src[i*4+0]
		g := src[i*4+1]
		rr := src[i*4+2]
		a := src[i*4+3]
		o := i * 4
		if format != renderer.FormatSRGB || a == 0 {
			dst.Pix[o+0] = rr
			dst.Pix[o+1] = g
			dst.Pix[o+2] = b
			dst.Pix[o+3] = a
			continue
		}
		af := float32(a) / 255
		c := ui.Color{
			R: float32(rr) / 255 / af,
			G: float32(g) / 255 / af,
			B: float32(b) / 255 / af,
			A: af,
		}
		s := c.ToSRGB()
		dst.Pix[o+0] = uint8(clamp01(s.R)*af*255 + 0.5)
		dst.Pix[o+1] = uint8(clamp01(s.G)*af*255 + 0.5)
		dst.Pix[o+2] = uint8(clamp01(s.B)*af*255 + 0.5)
		dst.Pix[o+3] = a
	}
}

func scaleRect(r ui.Rect, scale float32) ui.Rect {
	return ui.Rect{
		MinX: r.MinX * scale, MinY: r.MinY * scale,
		MaxX: r.MaxX * scale, MaxY: r.MaxY * scale,
	}
}

// slotUV maps an atlas slot to normalized texture coordinates.
func slotUV(s atlasSlot) ui.Rect {
	return ui.Rect{
		MinX: float32(s.x) / atlasSize,
		MinY: float32(s.y) / atlasSize,
		MaxX: float32(s.x+s.w) / atlasSize,
		MaxY: float32(s.y+s.h) / atlasSize,
	}
}

func f32bits(v float32) uint32 {
	return uint32(int32(v*64 + 0.5)) // quantized to 1/64 px, ample for cache identity
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func roundInt(v float32) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}
