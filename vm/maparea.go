package vm

import "rv39kernel/mem"

// MapType selects how a MapArea's virtual pages are backed.
type MapType int

const (
	// Identical maps vpn to the physical page with the same number,
	// used for the kernel's own identity-mapped sections.
	Identical MapType = iota
	// Framed backs each virtual page with a freshly allocated physical
	// frame, used for every user-space area and the trap context page.
	Framed
)

// MapPerm is the subset of PTE permission bits a MapArea applies to
// every page it maps; V is added automatically and must not be set
// here.
type MapPerm = mem.PTEFlags

const (
	PermR MapPerm = mem.PTER
	PermW MapPerm = mem.PTEW
	PermX MapPerm = mem.PTEX
	PermU MapPerm = mem.PTEU
)

// MapArea is a contiguous run of virtual pages sharing one MapType and
// permission set. For Framed areas, DataFrames owns the backing
// physical frame for every page currently mapped.
type MapArea struct {
	Range      mem.VPNRange
	DataFrames map[mem.VirtPageNum]*mem.FrameTracker
	MapType    MapType
	Perm       MapPerm
}

// NewMapArea builds an area spanning [startVA.Floor(), endVA.Ceil()),
// unmapped until Map is called.
func NewMapArea(startVA, endVA mem.VirtAddr, mapType MapType, perm MapPerm) *MapArea {
	return &MapArea{
		Range:      mem.NewVPNRange(startVA.Floor(), endVA.Ceil()),
		DataFrames: make(map[mem.VirtPageNum]*mem.FrameTracker),
		MapType:    mapType,
		Perm:       perm,
	}
}

func (area *MapArea) mapOne(pt *PageTable, vpn mem.VirtPageNum) {
	var ppn mem.PhysPageNum
	switch area.MapType {
	case Identical:
		ppn = mem.NewPhysPageNum(vpn.Uint64())
	case Framed:
		frame, ok := mem.FrameAlloc()
		if !ok {
			panic("vm: out of physical memory mapping area")
		}
		area.DataFrames[vpn] = frame
		ppn = frame.PPN
	}
	pt.Map(vpn, ppn, area.Perm)
}

func (area *MapArea) unmapOne(pt *PageTable, vpn mem.VirtPageNum) {
	if area.MapType == Framed {
		if frame, ok := area.DataFrames[vpn]; ok {
			frame.Drop()
			delete(area.DataFrames, vpn)
		}
	}
	pt.Unmap(vpn)
}

// Map installs every page in the area's range into pt.
func (area *MapArea) Map(pt *PageTable) {
	for vpn := range area.Range.All() {
		area.mapOne(pt, vpn)
	}
}

// Unmap removes every page in the area's range from pt, releasing any
// Framed backing pages.
func (area *MapArea) Unmap(pt *PageTable) {
	for vpn := range area.Range.All() {
		area.unmapOne(pt, vpn)
	}
}

// CopyData copies data into the area's backing frames, one page at a
// time, starting at the area's first page. The area must be Framed and
// already mapped into pt, and data must fit within the area's range.
func (area *MapArea) CopyData(pt *PageTable, data []byte) {
	vpn := area.Range.Start
	for start := 0; start < len(data); {
		end := start + mem.PageSize
		if end > len(data) {
			end = len(data)
		}
		src := data[start:end]
		pte, ok := pt.Translate(vpn)
		if !ok {
			panic("vm: copy_data hit an unmapped page")
		}
		dst := pte.PPN().Bytes()[:len(src)]
		copy(dst, src)
		start = end
		vpn = vpn.Step()
	}
}

// ShrinkTo shrinks the area's end down to newEnd, unmapping the pages
// dropped. newEnd must not be before the area's start.
func (area *MapArea) ShrinkTo(pt *PageTable, newEnd mem.VirtPageNum) {
	for vpn := newEnd; vpn != area.Range.End; vpn = vpn.Step() {
		area.unmapOne(pt, vpn)
	}
	area.Range.End = newEnd
}

// AppendTo grows the area's end out to newEnd, mapping the pages added.
// newEnd must not be before the area's current end.
func (area *MapArea) AppendTo(pt *PageTable, newEnd mem.VirtPageNum) {
	for vpn := area.Range.End; vpn != newEnd; vpn = vpn.Step() {
		area.mapOne(pt, vpn)
	}
	area.Range.End = newEnd
}
