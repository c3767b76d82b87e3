package gateways

import (
	"debug/macho"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const machoTypeDSYM = 0xa

// buildThinMachO returns a minimal 64-bit little-endian Mach-O with a single LC_UUID command
func buildThinMachO(cpu macho.Cpu, subCpu uint32, id [16]byte) []byte {
	le := binary.LittleEndian
	buf := make([]byte, 32+24)

	le.PutUint32(buf[0:], macho.Magic64)
	le.PutUint32(buf[4:], uint32(cpu))
	le.PutUint32(buf[8:], subCpu)
	le.PutUint32(buf[12:], machoTypeDSYM)
	le.PutUint32(buf[16:], 1)  // ncmds
	le.PutUint32(buf[20:], 24) // sizeofcmds

	le.PutUint32(buf[32:], loadCmdUUID)
	le.PutUint32(buf[36:], 24)
	copy(buf[40:], id[:])

	return buf
}

type fatSlice struct {
	cpu    macho.Cpu
	subCpu uint32
	id     [16]byte
}

// buildFatMachO wraps thin slices in a big-endian fat header
func buildFatMachO(slices ...fatSlice) []byte {
	be := binary.BigEndian
	const align = 64
	header := make([]byte, 8+20*len(slices))
	be.PutUint32(header[0:], macho.MagicFat)
	be.PutUint32(header[4:], uint32(len(slices)))

	body := make([]byte, 0)
	offset := uint32(align)
	for i, s := range slices {
		thin := buildThinMachO(s.cpu, s.subCpu, s.id)
		entry := header[8+20*i:]
		be.PutUint32(entry[0:], uint32(s.cpu))
		be.PutUint32(entry[4:], s.subCpu)
		be.PutUint32(entry[8:], offset)
		be.PutUint32(entry[12:], uint32(len(thin)))
		be.PutUint32(entry[16:], 6)

		padded := make([]byte, align)
		copy(padded, thin)
		body = append(body, padded...)
		offset += align
	}

	out := make([]byte, align)
	copy(out, header)
	return append(out, body...)
}

func writeBinary(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Demo")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to write binary: %v", err)
	}
	return path
}

var sampleUUID = [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}

func TestBinaryInspector_EmptyPath(t *testing.T) {
	infos, err := NewBinaryInspector().Inspect("")
	if err != nil {
		t.Fatalf("Inspect(\"\") failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("Expected no slices, got %d", len(infos))
	}
}

func TestBinaryInspector_ThinBinary(t *testing.T) {
	path := writeBinary(t, buildThinMachO(macho.CpuArm64, 0, sampleUUID))

	infos, err := NewBinaryInspector().Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("Expected 1 slice, got %d", len(infos))
	}
	if infos[0].Architecture != "arm64" {
		t.Errorf("Architecture = %q, want arm64", infos[0].Architecture)
	}
	if want := "12345678-9ABC-DEF0-1122-334455667788"; infos[0].UUID != want {
		t.Errorf("UUID = %q, want %q", infos[0].UUID, want)
	}
}

func TestBinaryInspector_FatBinary(t *testing.T) {
	second := sampleUUID
	second[0] = 0xff

	path := writeBinary(t, buildFatMachO(
		fatSlice{cpu: macho.CpuArm, subCpu: 9, id: sampleUUID},
		fatSlice{cpu: macho.CpuArm64, subCpu: 0, id: second},
	))

	infos, err := NewBinaryInspector().Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 slices, got %d", len(infos))
	}

	if infos[0].Architecture != "armv7" || infos[1].Architecture != "arm64" {
		t.Errorf("Architectures = %q, %q; want armv7, arm64", infos[0].Architecture, infos[1].Architecture)
	}
	if infos[0].UUID == infos[1].UUID {
		t.Errorf("Expected distinct UUIDs per slice, got %q twice", infos[0].UUID)
	}
	if want := "FF345678-9ABC-DEF0-1122-334455667788"; infos[1].UUID != want {
		t.Errorf("UUID = %q, want %q", infos[1].UUID, want)
	}
}

func TestBinaryInspector_InvalidFile(t *testing.T) {
	path := writeBinary(t, []byte("not a mach-o binary"))

	if _, err := NewBinaryInspector().Inspect(path); err == nil {
		t.Fatal("Expected error for invalid binary, got nil")
	}
}

func TestBinaryInspector_NonexistentFile(t *testing.T) {
	if _, err := NewBinaryInspector().Inspect("/nonexistent/Demo"); err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestArchName(t *testing.T) {
	tests := []struct {
		cpu    macho.Cpu
		subCpu uint32
		want   string
	}{
		{macho.CpuArm64, 0, "arm64"},
		{macho.CpuArm64, 0x80000002, "arm64e"},
		{cpuArm64_32, 1, "arm64_32"},
		{macho.CpuArm, 11, "armv7s"},
		{macho.CpuArm, 12, "armv7k"},
		{macho.CpuArm, 99, "arm"},
		{macho.CpuAmd64, 3, "x86_64"},
		{macho.CpuAmd64, 8, "x86_64h"},
		{macho.Cpu386, 3, "i386"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ArchName(tt.cpu, tt.subCpu); got != tt.want {
				t.Errorf("ArchName(%v, %#x) = %q, want %q", tt.cpu, tt.subCpu, got, tt.want)
			}
		})
	}
}
