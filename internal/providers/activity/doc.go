// Package activity exposes foreground-activity inspection as a service
// provider.
//
// Tools:
//   - activity.active: resolve the most interesting foreground process
//     on a terminal device, with environment and resource metrics
//   - activity.wait_idle: block until the device's foreground process
//     goes idle, with optional timeout
//   - activity.snapshot: raw process table for a device
package activity
