// Package service contains the application business logic.
package service

import "errors"

// Sentinel errors surfaced to the handler layer. Ownership failures are
// reported as not-found so a caller cannot distinguish a foreign chat from
// a missing one.
var (
	ErrChatNotFound    = errors.New("chat tidak ditemukan")
	ErrMessageNotFound = errors.New("pesan tidak ditemukan")

	ErrEmptyMessage   = errors.New("pesan tidak boleh kosong")
	ErrMessageTooLong = errors.New("pesan terlalu panjang")
	ErrEmptyTitle     = errors.New("judul tidak boleh kosong")
	ErrTitleTooLong   = errors.New("judul terlalu panjang")
	ErrInvalidRating  = errors.New("rating tidak valid")

	ErrInvalidEmail       = errors.New("alamat email tidak valid")
	ErrOTPCooldown        = errors.New("kode sudah dikirim, coba lagi sebentar lagi")
	ErrOTPInvalid         = errors.New("kode verifikasi salah atau tidak ditemukan")
	ErrOTPExpired         = errors.New("kode verifikasi sudah kedaluwarsa")
	ErrOTPTooManyAttempts = errors.New("terlalu banyak percobaan verifikasi")
)
