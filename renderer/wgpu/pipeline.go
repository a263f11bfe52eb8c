// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Embedded unified UI shader source.
//
//go:embed shaders/ui.wgsl
var uiShaderSource string

// sampleCount is the MSAA sample count for the render target.
const sampleCount = 4

// pipelines holds the GPU objects shared by every frame: the shader
// module, the common bind group layout (uniform + texture + sampler),
// both render pipelines and the sampler.
type pipelines struct {
	device hal.Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	rect       hal.RenderPipeline
	tex        hal.RenderPipeline
	sampler    hal.Sampler
}

// createPipelines compiles the shader and builds both render pipelines.
// Both entry point pairs live in the same module and share one bind
// group layout, so draws switch pipelines without rebinding.
func createPipelines(device hal.Device) (*pipelines, error) {
	if uiShaderSource == "" {
		return nil, fmt.Errorf("ui shader source is empty")
	}
	p := &pipelines{device: device}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "ui_shader",
		Source: hal.ShaderSource{WGSL: uiShaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("compile ui shader: %w", err)
	}
	p.shader = shader

	// Binding 0: Globals (uniform buffer, vertex+fragment)
	// Binding 1: mask atlas or image texture (texture_2d, fragment)
	// Binding 2: sampler (fragment)
	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ui_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "ui_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "ui_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	p.sampler = sampler

	p.rect, err = p.createRenderPipeline("ui_rect_pipeline", "vs_rect", "fs_rect", rectVertexLayout())
	if err != nil {
		p.destroy()
		return nil, err
	}
	p.tex, err = p.createRenderPipeline("ui_tex_pipeline", "vs_tex", "fs_tex", texVertexLayout())
	if err != nil {
		p.destroy()
		return nil, err
	}

	return p, nil
}

func (p *pipelines) createRenderPipeline(label, vsEntry, fsEntry string, buffers []gputypes.VertexBufferLayout) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: vsEntry,
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: fsEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return pipeline, nil
}

// destroy releases pipeline resources in reverse creation order. Safe
// on partially constructed state.
func (p *pipelines) destroy() {
	if p.device == nil {
		return
	}
	if p.tex != nil {
		p.device.DestroyRenderPipeline(p.tex)
		p.tex = nil
	}
	if p.rect != nil {
		p.device.DestroyRenderPipeline(p.rect)
		p.rect = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// rectVertexLayout returns the vertex buffer layout for the rect
// pipeline. Matches RectInput in shaders/ui.wgsl.
func rectVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: rectVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},   // position
				{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},   // rect
				{Format: gputypes.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},  // radii
				{Format: gputypes.VertexFormatFloat32x4, Offset: 40, ShaderLocation: 3},  // borders
				{Format: gputypes.VertexFormatFloat32x4, Offset: 56, ShaderLocation: 4},  // clip
				{Format: gputypes.VertexFormatFloat32x4, Offset: 72, ShaderLocation: 5},  // fill
				{Format: gputypes.VertexFormatFloat32x4, Offset: 88, ShaderLocation: 6},  // top_color
				{Format: gputypes.VertexFormatFloat32x4, Offset: 104, ShaderLocation: 7}, // right_color
				{Format: gputypes.VertexFormatFloat32x4, Offset: 120, ShaderLocation: 8}, // bottom_color
				{Format: gputypes.VertexFormatFloat32x4, Offset: 136, ShaderLocation: 9}, // left_color
			},
		},
	}
}

// texVertexLayout returns the vertex buffer layout for the tex
// pipeline. Matches TexInput in shaders/ui.wgsl.
func texVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: texVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // uv
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2}, // color
				{Format: gputypes.VertexFormatFloat32, Offset: 32, ShaderLocation: 3},   // mode
				{Format: gputypes.VertexFormatFloat32x4, Offset: 36, ShaderLocation: 4}, // clip
			},
		},
	}
}

// targets holds the MSAA color texture and its single-sample resolve
// target, recreated on resize.
type targets struct {
	device hal.Device

	width, height uint32

	msaaTex     hal.Texture
	msaaView    hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView
}

// ensure creates or recreates the render targets for the given size.
func (t *targets) ensure(device hal.Device, w, h uint32) error {
	if t.width == w && t.height == h && t.msaaTex != nil {
		return nil
	}
	t.device = device
	t.destroy()

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	msaaTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "ui_msaa",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   sampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create MSAA texture: %w", err)
	}
	t.msaaTex = msaaTex

	msaaView, err := device.CreateTextureView(msaaTex, &hal.TextureViewDescriptor{
		Label:         "ui_msaa_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.destroy()
		return fmt.Errorf("create MSAA view: %w", err)
	}
	t.msaaView = msaaView

	resolveTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "ui_resolve",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		t.destroy()
		return fmt.Errorf("create resolve texture: %w", err)
	}
	t.resolveTex = resolveTex

	resolveView, err := device.CreateTextureView(resolveTex, &hal.TextureViewDescriptor{
		Label:         "ui_resolve_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.destroy()
		return fmt.Errorf("create resolve view: %w", err)
	}
	t.resolveView = resolveView

	t.width, t.height = w, h
	return nil
}

func (t *targets) destroy() {
	if t.device == nil {
		return
	}
	if t.resolveView != nil {
		t.device.DestroyTextureView(t.resolveView)
		t.resolveView = nil
	}
	if t.resolveTex != nil {
		t.device.DestroyTexture(t.resolveTex)
		t.resolveTex = nil
	}
	if t.msaaView != nil {
		t.device.DestroyTextureView(t.msaaView)
		t.msaaView = nil
	}
	if t.msaaTex != nil {
		t.device.DestroyTexture(t.msaaTex)
		t.msaaTex = nil
	}
	t.width, t.height = 0, 0
}
