// Package tlsutil 为所有 API 客户端提供共享的 HTTP 传输层，
// TLS 1.2+，仅 AEAD 密码套件，并在同一进程内复用连接池。
package tlsutil
