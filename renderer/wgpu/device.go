// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend
)

// DeviceHandle is the host-facing device contract, aliased so hosts
// built on the gogpu stack pass their provider through
// renderer.Options.Device unchanged.
type DeviceHandle = gpucontext.DeviceProvider

// DeviceProvider supplies a shared HAL device and queue from an
// application that already initialized the GPU, so the renderer does
// not open a second device. HalDevice must return a hal.Device and
// HalQueue a hal.Queue. Hosts whose DeviceHandle also implements this
// interface share their device; others fail construction with a
// descriptive error.
type DeviceProvider interface {
	HalDevice() any
	HalQueue() any
}

// gpuContext holds the acquired device state. When owned is set the
// backend created the instance and device itself and must destroy them.
type gpuContext struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	owned    bool
}

// acquireDevice resolves a device and queue. A non-nil shared value must
// implement DeviceProvider; otherwise a Vulkan device is opened,
// preferring discrete over integrated adapters.
func acquireDevice(shared any) (*gpuContext, error) {
	if shared != nil {
		hp, ok := shared.(DeviceProvider)
		if !ok {
			if _, isHandle := shared.(DeviceHandle); isHandle {
				return nil, fmt.Errorf("wgpu: device handle does not expose HAL types")
			}
			return nil, fmt.Errorf("wgpu: device option does not expose HAL types")
		}
		device, ok := hp.HalDevice().(hal.Device)
		if !ok || device == nil {
			return nil, fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
		}
		queue, ok := hp.HalQueue().(hal.Queue)
		if !ok || queue == nil {
			return nil, fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
		}
		return &gpuContext{device: device, queue: queue}, nil
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}
	return &gpuContext{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		owned:    true,
	}, nil
}

// destroy releases owned device resources. Shared devices are left to
// their provider.
func (g *gpuContext) destroy() {
	if g.owned && g.device != nil {
		g.device.Destroy()
	}
	g.device = nil
	g.queue = nil
	if g.instance != nil {
		g.instance.Destroy()
		g.instance = nil
	}
}
