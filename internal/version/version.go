// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Opt-in jitter scaling, shape summary, event log in the control panel
// 0.2.0 - Build-then-swap regeneration, damped orbit camera, headless -frame
// 0.1.0 - Initial release: spiral galaxy generator, terminal renderer, parameter panel
