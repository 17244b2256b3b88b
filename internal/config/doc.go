// Package config loads the debug toolbar configuration from the `toolbar:`
// section of config.yaml.
//
// Config fields:
//   - Enabled       : feature gate for all toolbar side effects (default false)
//   - Retention     : number of toolbars kept on disk (default 20)
//   - VarDir        : variable-data root; toolbars go to <var_dir>/smile_toolbar
//   - AreaCode      : scope tag embedded in toolbar ids (default "frontend")
//   - HTTPPort      : listen port (default 8080)
//   - StreamInterval: websocket push interval (default 5s)
//   - API.KeyEnv    : environment variable holding the inspection API key
//   - API.Header    : header carrying the key (default "X-Api-Key")
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, fn) reloads on file changes; Gate carries the reloadable
// Enabled/RetentionCount pair to request handlers.
package config
