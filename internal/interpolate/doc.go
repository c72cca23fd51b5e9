// Package interpolate expands artifact name templates such as
// "[path][name].[hash:8].[ext]" into concrete output names. Tokens follow the
// conventions used by web bundlers so that existing naming schemes carry over
// unchanged.
package interpolate
