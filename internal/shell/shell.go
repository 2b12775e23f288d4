// Package shell runs the interactive recipient menu over line-oriented input.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sembako/internal/core"
	"sembako/pkg/domain"
)

// DateLayout renders registration timestamps as dd-MM-yyyy HH:mm:ss.
const DateLayout = "02-01-2006 15:04:05"

// Menu options.
const (
	OptionAdd = iota + 1
	OptionDisplay
	OptionUpdate
	OptionDelete
	OptionExit
)

const menu = `
=== Menu Manajemen Sembako ===
1. Tambah Penerima
2. Tampilkan Semua Penerima
3. Perbarui Data Penerima
4. Hapus Penerima
5. Keluar
`

// Facade is the set of recipient operations the menu drives.
type Facade interface {
	Add(ctx context.Context, name, address string, familySize int) (int64, error)
	Display(ctx context.Context) (core.Listing, error)
	Update(ctx context.Context, id int64, newName string, newFamilySize int) error
	Delete(ctx context.Context, id int64) (string, error)
}

var _ Facade = (*core.Service)(nil)

// InputFormatError reports a line that could not be parsed as a number.
type InputFormatError struct {
	Field string
	Input string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Input)
}

// Shell reads menu choices from in, prompts and results go to out, failures
// to errOut.
type Shell struct {
	facade  Facade
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	lines   chan readResult
	readErr error
}

type readResult struct {
	text string
	err  error
}

// New returns a shell over facade.
func New(facade Facade, in io.Reader, out, errOut io.Writer) *Shell {
	return &Shell{facade: facade, in: bufio.NewReader(in), out: out, errOut: errOut}
}

// Run loops until option 5 or end of input. It returns an error only when
// reading input fails or ctx is cancelled, including while waiting for input.
func (s *Shell) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	s.lines = make(chan readResult)
	go s.readLines(stop)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, menu)
		line, ok := s.prompt(ctx, "Pilih opsi: ")
		if !ok {
			return s.readErr
		}
		choice, err := parseInt("option", line)
		if err != nil {
			fmt.Fprintln(s.errOut, "Input tidak valid. Silakan coba lagi.")
			continue
		}
		if choice == OptionExit {
			fmt.Fprintln(s.out, "Program selesai. Terima kasih!")
			return nil
		}
		done, err := s.dispatch(ctx, choice)
		var ife *InputFormatError
		if errors.As(err, &ife) {
			fmt.Fprintln(s.errOut, "Input tidak valid. Silakan coba lagi.")
			continue
		}
		if done {
			return s.readErr
		}
	}
}

// dispatch runs one menu choice. done reports that input ended mid-prompt.
func (s *Shell) dispatch(ctx context.Context, choice int) (done bool, err error) {
	switch choice {
	case OptionAdd:
		return s.add(ctx)
	case OptionDisplay:
		s.display(ctx)
		return false, nil
	case OptionUpdate:
		return s.update(ctx)
	case OptionDelete:
		return s.delete(ctx)
	default:
		fmt.Fprintln(s.out, "Pilihan tidak valid.")
		return false, nil
	}
}

func (s *Shell) add(ctx context.Context) (bool, error) {
	name, ok := s.prompt(ctx, "Nama: ")
	if !ok {
		return true, nil
	}
	address, ok := s.prompt(ctx, "Alamat: ")
	if !ok {
		return true, nil
	}
	line, ok := s.prompt(ctx, "Jumlah Keluarga: ")
	if !ok {
		return true, nil
	}
	familySize, err := parseInt("family size", line)
	if err != nil {
		return false, err
	}

	_, err = s.facade.Add(ctx, name, address, familySize)
	var dup domain.ErrDuplicate
	switch {
	case err == nil:
		fmt.Fprintln(s.out, "Penerima berhasil ditambahkan.")
	case errors.As(err, &dup):
		fmt.Fprintln(s.out, "Data penerima sudah ada di database.")
	default:
		fmt.Fprintf(s.errOut, "Gagal menambahkan penerima: %v\n", err)
	}
	return false, nil
}

func (s *Shell) display(ctx context.Context) {
	listing, err := s.facade.Display(ctx)
	if err != nil {
		fmt.Fprintf(s.errOut, "Gagal menampilkan data penerima: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "\nDaftar Penerima Sembako:")
	for _, r := range listing.Stored {
		fmt.Fprintf(s.out, "%d. %s - %s\n", r.ID, r.Name, r.Address)
		fmt.Fprintf(s.out, "Jumlah Keluarga: %d, Sembako: %d item\n", r.FamilySize, r.RationQuantity())
		fmt.Fprintf(s.out, "Tanggal Pendaftaran: %s\n", r.AddedDate.Format(DateLayout))
	}
	fmt.Fprintln(s.out, "\nDaftar Penerima Sembako (in-memory):")
	for _, r := range listing.Session {
		fmt.Fprintln(s.out, describe(r))
	}
}

func (s *Shell) update(ctx context.Context) (bool, error) {
	line, ok := s.prompt(ctx, "ID: ")
	if !ok {
		return true, nil
	}
	id, err := parseID(line)
	if err != nil {
		return false, err
	}
	newName, ok := s.prompt(ctx, "Nama Baru: ")
	if !ok {
		return true, nil
	}
	line, ok = s.prompt(ctx, "Jumlah Keluarga Baru: ")
	if !ok {
		return true, nil
	}
	newFamilySize, err := parseInt("family size", line)
	if err != nil {
		return false, err
	}

	err = s.facade.Update(ctx, id, newName, newFamilySize)
	switch {
	case err == nil:
		fmt.Fprintln(s.out, "Data penerima berhasil diperbarui.")
		fmt.Fprintf(s.out, "Data yang diperbarui: %s, Jumlah Keluarga: %d\n", newName, newFamilySize)
	case domain.IsNotFound(err):
		fmt.Fprintf(s.out, "Data tidak ditemukan untuk ID: %d\n", id)
	default:
		fmt.Fprintf(s.errOut, "Gagal memperbarui data: %v\n", err)
	}
	return false, nil
}

func (s *Shell) delete(ctx context.Context) (bool, error) {
	line, ok := s.prompt(ctx, "ID: ")
	if !ok {
		return true, nil
	}
	id, err := parseID(line)
	if err != nil {
		return false, err
	}

	_, err = s.facade.Delete(ctx, id)
	switch {
	case err == nil:
		fmt.Fprintln(s.out, "Data penerima berhasil dihapus.")
	case domain.IsNotFound(err):
		fmt.Fprintf(s.out, "Data tidak ditemukan untuk ID: %d\n", id)
	default:
		fmt.Fprintf(s.errOut, "Gagal menghapus data: %v\n", err)
	}
	return false, nil
}

// readLines feeds input lines to prompt until a read fails or stop closes.
func (s *Shell) readLines(stop <-chan struct{}) {
	for {
		text, err := s.in.ReadString('\n')
		select {
		case s.lines <- readResult{text: text, err: err}:
		case <-stop:
			return
		}
		if err != nil {
			close(s.lines)
			return
		}
	}
}

// prompt writes label and waits for one line of any length; ok is false at
// end of input, on a read failure or on cancellation, the latter two kept in
// readErr.
func (s *Shell) prompt(ctx context.Context, label string) (string, bool) {
	fmt.Fprint(s.out, label)
	select {
	case <-ctx.Done():
		s.readErr = ctx.Err()
	case r, open := <-s.lines:
		if !open {
			break
		}
		if r.err == nil || (errors.Is(r.err, io.EOF) && r.text != "") {
			return strings.TrimRight(r.text, "\r\n"), true
		}
		if !errors.Is(r.err, io.EOF) {
			s.readErr = r.err
		}
	}
	fmt.Fprintln(s.out)
	return "", false
}

func describe(d domain.Describable) string {
	return d.Details()
}

func parseInt(field, line string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, &InputFormatError{Field: field, Input: line}
	}
	return n, nil
}

func parseID(line string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return 0, &InputFormatError{Field: "id", Input: line}
	}
	return n, nil
}
