// Package device holds the persisted identity and configuration records of
// the Smart Device.
//
// Two JSON files live under the SIFIS-Home directory (/opt/sifis-home/ by
// default, overridable with the SIFIS_HOME_PATH environment variable):
//
//   - device.json — the immutable device identity (Info). Written once at
//     provisioning time, either at the factory or by the create-device-info
//     tool. The service cannot start without it.
//   - config.json — the owner-set configuration (Config). Missing until the
//     device is first configured, and removed again by a factory reset.
//
// The Home type knows the file locations and performs all load/save/remove
// operations, so the rest of the service never touches paths directly.
package device
