//go:build opencl

package opencl

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// Injector implements fluid.SourceInjector with an OpenCL kernel. It keeps
// one device buffer per operand sized for a fixed grid.
type Injector struct {
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kernel  *cl.Kernel
	xBuf    *cl.MemObject
	sBuf    *cl.MemObject

	size   int
	device string
}

func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

// New compiles the kernel and allocates buffers for size float32 cells,
// normally fluid.Cells(n).
func New(size int) (*Injector, error) {
	if size <= 0 {
		return nil, fmt.Errorf("opencl: invalid buffer size %d", size)
	}
	device, err := pickDevice()
	if err != nil {
		return nil, err
	}
	in := &Injector{size: size, device: device.Name()}
	fail := func(err error) (*Injector, error) {
		in.Close()
		return nil, err
	}

	if in.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return fail(fmt.Errorf("creating OpenCL context: %w", err))
	}
	if in.queue, err = in.context.CreateCommandQueue(device, 0); err != nil {
		return fail(fmt.Errorf("creating OpenCL command queue: %w", err))
	}
	if in.program, err = in.context.CreateProgramWithSource([]string{addSourceKernel}); err != nil {
		return fail(fmt.Errorf("creating OpenCL program: %w", err))
	}
	if err := in.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		if buildErr, ok := err.(cl.BuildError); ok {
			return fail(fmt.Errorf("building OpenCL program: %s", string(buildErr)))
		}
		return fail(fmt.Errorf("building OpenCL program: %w", err))
	}
	if in.kernel, err = in.program.CreateKernel("add_source"); err != nil {
		return fail(fmt.Errorf("creating add_source kernel: %w", err))
	}
	byteSize := size * int(unsafe.Sizeof(float32(0)))
	if in.xBuf, err = in.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize); err != nil {
		return fail(fmt.Errorf("allocating x buffer: %w", err))
	}
	if in.sBuf, err = in.context.CreateEmptyBuffer(cl.MemReadOnly, byteSize); err != nil {
		return fail(fmt.Errorf("allocating source buffer: %w", err))
	}
	return in, nil
}

// AddSource uploads x and s, runs x += dt*s on the device and reads x back.
func (in *Injector) AddSource(x, s []float32, dt float32) error {
	if in.kernel == nil {
		return errors.New("opencl: injector is closed")
	}
	if len(x) != in.size || len(s) != in.size {
		return fmt.Errorf("opencl: buffer length %d/%d, injector sized for %d", len(x), len(s), in.size)
	}
	if _, err := in.queue.EnqueueWriteBufferFloat32(in.xBuf, false, 0, x, nil); err != nil {
		return fmt.Errorf("writing x buffer: %w", err)
	}
	if _, err := in.queue.EnqueueWriteBufferFloat32(in.sBuf, false, 0, s, nil); err != nil {
		return fmt.Errorf("writing source buffer: %w", err)
	}
	if err := in.kernel.SetArgs(in.xBuf, in.sBuf, dt, int32(in.size)); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	if _, err := in.queue.EnqueueNDRangeKernel(in.kernel, nil, []int{in.size}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing add_source: %w", err)
	}
	if _, err := in.queue.EnqueueReadBufferFloat32(in.xBuf, true, 0, x, nil); err != nil {
		return fmt.Errorf("reading x buffer: %w", err)
	}
	return nil
}

// Name identifies the device in logs.
func (in *Injector) Name() string { return "opencl:" + in.device }

// Close releases every device object. It is safe to call more than once.
func (in *Injector) Close() {
	if in.sBuf != nil {
		in.sBuf.Release()
		in.sBuf = nil
	}
	if in.xBuf != nil {
		in.xBuf.Release()
		in.xBuf = nil
	}
	if in.kernel != nil {
		in.kernel.Release()
		in.kernel = nil
	}
	if in.program != nil {
		in.program.Release()
		in.program = nil
	}
	if in.queue != nil {
		in.queue.Release()
		in.queue = nil
	}
	if in.context != nil {
		in.context.Release()
		in.context = nil
	}
}
