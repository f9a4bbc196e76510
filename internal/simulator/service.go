package simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/OldStager01/cloud-autoscaler/pkg/models"
)

// ServiceSimConfig seeds a ServiceSim's baseline load and instance count.
type ServiceSimConfig struct {
	InitialInstances int
	BaseCPU          float64
	BaseMemory       float64
	Variance         float64
}

// ServiceSim is a load generator for one simulated service, serving the
// wire shape internal/collector's HTTPCollector expects: a single
// ServiceMetrics snapshot rather than a per-server metrics list, since
// this domain tracks instance counts, not individual server health.
type ServiceSim struct {
	id                string
	instances         int
	baseCPU           float64
	baseMemory        float64
	variance          float64
	pattern           Pattern
	spike             *Spike
	memorySpike       *MemorySpike
	memoryCorrelation float64
	mu                sync.RWMutex
}

type Spike struct {
	TargetCPU   float64
	StartTime   time.Time
	Duration    time.Duration
	RampUp      time.Duration
	OriginalCPU float64
}

type MemorySpike struct {
	TargetMemory   float64
	StartTime      time.Time
	Duration       time.Duration
	RampUp         time.Duration
	OriginalMemory float64
}

func NewServiceSim(id string, cfg ServiceSimConfig) *ServiceSim {
	if cfg.InitialInstances <= 0 {
		cfg.InitialInstances = 3
	}
	return &ServiceSim{
		id:                id,
		instances:         cfg.InitialInstances,
		baseCPU:           cfg.BaseCPU,
		baseMemory:        cfg.BaseMemory,
		variance:          cfg.Variance,
		pattern:           PatternSteady,
		memoryCorrelation: 0.6,
	}
}

// CollectMetrics produces the next simulated snapshot for this service.
func (s *ServiceSim) CollectMetrics() *models.ServiceMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cpu := s.randomValue(s.calculateCurrentCPU(), s.variance)
	memory := s.randomValue(s.calculateCurrentMemory(cpu), s.variance/2)
	cpu = clampPct(cpu)
	memory = clampPct(memory)

	return &models.ServiceMetrics{
		ServiceID:  s.id,
		CapturedAt: time.Now(),
		Resources: models.ResourceMetrics{
			CPUUsage:    cpu,
			MemoryUsage: memory,
			NetworkIn:   s.randomValue(50, s.variance),
			NetworkOut:  s.randomValue(40, s.variance),
		},
		Performance: models.PerformanceMetrics{
			ResponseTimeMs: s.randomValue(80+cpu*2, s.variance),
			ThroughputRPS:  s.randomValue(200, s.variance*5),
			ErrorRate:      s.randomValue(cpu/50, 0.2),
			QueueLength:    s.randomValue(cpu/10, 2),
		},
		Instances: models.InstanceMetrics{
			Current:   s.instances,
			Healthy:   s.instances,
			Unhealthy: 0,
		},
	}
}

func (s *ServiceSim) calculateCurrentCPU() float64 {
	baseCPU := s.pattern.Apply(s.baseCPU)

	if s.spike != nil {
		elapsed := time.Since(s.spike.StartTime)
		switch {
		case elapsed > s.spike.Duration:
			s.spike = nil
		case elapsed < s.spike.RampUp:
			progress := float64(elapsed) / float64(s.spike.RampUp)
			baseCPU = s.spike.OriginalCPU + (s.spike.TargetCPU-s.spike.OriginalCPU)*progress
		default:
			baseCPU = s.spike.TargetCPU
		}
	}

	return baseCPU
}

func (s *ServiceSim) calculateCurrentMemory(cpu float64) float64 {
	baseMemory := s.baseMemory

	if s.memorySpike != nil {
		elapsed := time.Since(s.memorySpike.StartTime)
		switch {
		case elapsed > s.memorySpike.Duration:
			s.memorySpike = nil
		case elapsed < s.memorySpike.RampUp:
			progress := float64(elapsed) / float64(s.memorySpike.RampUp)
			baseMemory = s.memorySpike.OriginalMemory + (s.memorySpike.TargetMemory-s.memorySpike.OriginalMemory)*progress
		default:
			baseMemory = s.memorySpike.TargetMemory
		}
	}

	cpuDelta := cpu - s.baseCPU
	return baseMemory + cpuDelta*s.memoryCorrelation
}

func (s *ServiceSim) randomValue(mean, variance float64) float64 {
	if variance <= 0 {
		return mean
	}
	return mean + (rand.Float64()*2-1)*variance
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (s *ServiceSim) InstanceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.instances
}

func (s *ServiceSim) SetInstanceCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	s.instances = n
}

func (s *ServiceSim) AddInstances(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances += n
}

func (s *ServiceSim) RemoveInstances(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances -= n
	if s.instances < 0 {
		s.instances = 0
	}
}

func (s *ServiceSim) SetBaseCPU(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseCPU = v
}

func (s *ServiceSim) SetBaseMemory(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseMemory = v
}

func (s *ServiceSim) SetVariance(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variance = v
}

func (s *ServiceSim) SetPattern(p Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pattern = p
}

func (s *ServiceSim) GetPattern() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pattern.Name()
}

func (s *ServiceSim) InjectSpike(targetCPU float64, duration, rampUp time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spike = &Spike{
		TargetCPU:   targetCPU,
		StartTime:   time.Now(),
		Duration:    duration,
		RampUp:      rampUp,
		OriginalCPU: s.baseCPU,
	}
}

// Status summarizes a service's simulated state for the admin listing.
type Status struct {
	ServiceID string `json:"service_id"`
	Instances int    `json:"instances"`
	Pattern   string `json:"pattern"`
}

func (s *ServiceSim) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{ServiceID: s.id, Instances: s.instances, Pattern: s.pattern.Name()}
}
