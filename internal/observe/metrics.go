package observe

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	onlineUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_online_users",
		Help: "Number of online users",
	})

	peakConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_peak_connections",
		Help: "Peak number of concurrent connections since start",
	})

	connectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_connections_total",
		Help: "Total accepted connections",
	})

	broadcastsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_broadcast_messages_total",
		Help: "Total broadcast deliveries (one per broadcast, not per recipient)",
	})

	privateMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_private_messages_total",
		Help: "Total private messages delivered",
	})

	droppedMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_dropped_messages_total",
		Help: "Total messages dropped due to client backpressure",
	})

	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_commands_total",
			Help: "Total commands executed by name",
		},
		[]string{"name"},
	)

	commandErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_command_errors_total",
			Help: "Total command errors by reason",
		},
		[]string{"reason"}, // unknown|usage|target
	)
)

func init() {
	prometheus.MustRegister(
		onlineUsers,
		peakConnections,
		connectionsTotal,
		broadcastsTotal,
		privateMessagesTotal,
		droppedMessagesTotal,
		commandsTotal,
		commandErrorsTotal,
	)
}

func AddOnline(delta float64)       { onlineUsers.Add(delta) }
func SetPeak(v float64)             { peakConnections.Set(v) }
func IncConnection()                { connectionsTotal.Inc() }
func IncBroadcast()                 { broadcastsTotal.Inc() }
func IncPrivate()                   { privateMessagesTotal.Inc() }
func IncDropped()                   { droppedMessagesTotal.Inc() }
func IncCommand(name string)        { commandsTotal.WithLabelValues(name).Inc() }
func IncCommandError(reason string) { commandErrorsTotal.WithLabelValues(reason).Inc() }
