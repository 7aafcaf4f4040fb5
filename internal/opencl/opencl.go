// Package opencl offloads the source-injection sub-step to an OpenCL
// device. Build with -tags opencl to enable it; otherwise New always
// returns ErrUnavailable and callers keep the CPU path.
package opencl

import "errors"

// ErrUnavailable is returned by New when the binary was built without
// OpenCL support.
var ErrUnavailable = errors.New("opencl: support is not enabled; rebuild with -tags opencl")

const addSourceKernel = `
#pragma OPENCL FP_CONTRACT OFF
__kernel void add_source(__global float* x, __global const float* s, const float dt, const int size) {
    int i = get_global_id(0);
    if (i < size) {
        x[i] = x[i] + dt * s[i];
    }
}`
