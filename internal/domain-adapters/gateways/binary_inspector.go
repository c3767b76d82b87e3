// Package gateways provides adapter implementations for file-system and binary tooling.
package gateways

import (
	"debug/macho"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ochairo/debugfile/internal/domain/entities"
)

// loadCmdUUID is LC_UUID; debug/macho leaves it as raw LoadBytes
const loadCmdUUID = 0x1b

// cpuSubtypeMask strips capability bits (e.g. pointer authentication) from cpusubtype
const cpuSubtypeMask = 0x00ffffff

const cpuArm64_32 macho.Cpu = 0x0200000c

// binaryInspector reads Mach-O load commands using debug/macho
type binaryInspector struct{}

// NewBinaryInspector creates a new binary inspector
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewBinaryInspector() *binaryInspector {
	return &binaryInspector{}
}

// Inspect returns architecture and UUID for every slice of a thin or fat binary
func (b *binaryInspector) Inspect(path string) ([]entities.MachoInfo, error) {
	if path == "" {
		return []entities.MachoInfo{}, nil
	}

	fat, err := macho.OpenFat(path)
	if err == nil {
		//nolint:errcheck // Defer close on read-only file
		defer fat.Close()

		infos := make([]entities.MachoInfo, 0, len(fat.Arches))
		for _, arch := range fat.Arches {
			infos = append(infos, describe(arch.File))
		}
		return infos, nil
	}

	// Big-endian thin binaries are rejected by OpenFat with a format error
	// rather than ErrNotFat, so any failure falls through to a thin open.
	f, err := macho.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Mach-O file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	return []entities.MachoInfo{describe(f)}, nil
}

func describe(f *macho.File) entities.MachoInfo {
	return entities.MachoInfo{
		Architecture: ArchName(f.Cpu, f.SubCpu),
		UUID:         findUUID(f),
	}
}

func findUUID(f *macho.File) string {
	for _, load := range f.Loads {
		raw := load.Raw()
		if len(raw) < 24 || f.ByteOrder.Uint32(raw[0:4]) != loadCmdUUID {
			continue
		}
		id, err := uuid.FromBytes(raw[8:24])
		if err != nil {
			return ""
		}
		return strings.ToUpper(id.String())
	}
	return ""
}

// ArchName maps a CPU type and subtype to the name used by Xcode and crash reporters
func ArchName(cpu macho.Cpu, subCpu uint32) string {
	sub := subCpu & cpuSubtypeMask

	switch cpu {
	case macho.CpuArm64:
		switch sub {
		case 1:
			return "arm64v8"
		case 2:
			return "arm64e"
		default:
			return "arm64"
		}
	case cpuArm64_32:
		return "arm64_32"
	case macho.CpuArm:
		if name, ok := armSubtypes[sub]; ok {
			return name
		}
		return "arm"
	case macho.CpuAmd64:
		if sub == 8 {
			return "x86_64h"
		}
		return "x86_64"
	case macho.Cpu386:
		return "i386"
	case macho.CpuPpc:
		return "ppc"
	case macho.CpuPpc64:
		return "ppc64"
	default:
		return fmt.Sprintf("cpu(%d,%d)", uint32(cpu), sub)
	}
}

var armSubtypes = map[uint32]string{
	5:  "armv4t",
	6:  "armv6",
	7:  "armv5",
	8:  "xscale",
	9:  "armv7",
	10: "armv7f",
	11: "armv7s",
	12: "armv7k",
	14: "armv6m",
	15: "armv7m",
	16: "armv7em",
}
