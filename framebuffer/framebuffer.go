// Package framebuffer renders matrix surfaces onto the operating system's
// native framebuffer device, for on-device development preview without panel
// hardware.
//
// This requires framebuffer device support in the operating system. The
// device is opened with [Open] and then behaves like any other matrix
// surface: drawing mutates an off-screen buffer, Render copies it to the
// mapped screen memory.
package framebuffer
