package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"movie-rec-go/internal/service"
	"movie-rec-go/pkg/log"
	"movie-rec-go/pkg/token"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// WsHandler 负责处理 WebSocket 推荐会话。
// 客户端先通过 /api/v1/recommend/websocket-token 换取短时 token，
// 再以 /ws/recommend/:token 建立连接，每发送一条查询收到一条推荐结果。
type WsHandler struct {
	recommendService service.RecommendService
	jwtManager       *token.JWTManager
}

// NewWsHandler 创建一个新的 WsHandler 实例。
func NewWsHandler(recommendService service.RecommendService, jwtManager *token.JWTManager) *WsHandler {
	return &WsHandler{
		recommendService: recommendService,
		jwtManager:       jwtManager,
	}
}

// wsQuery 是客户端发来的一条查询帧。
// Alpha 用指针以区分"未携带"与显式的 alpha=0（纯传统通道）。
type wsQuery struct {
	Query string   `json:"query"`
	TopK  int      `json:"topK"`
	Alpha *float64 `json:"alpha"`
}

// blendAlpha 返回查询帧请求的混合权重，未携带 alpha 字段时返回 -1 以使用配置默认值。
func (q wsQuery) blendAlpha() float64 {
	if q.Alpha == nil {
		return -1
	}
	return *q.Alpha
}

// wsError 是发回客户端的错误帧。
type wsError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// wsResult 是发回客户端的结果帧。
type wsResult struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Recommend 处理一个 WebSocket 推荐会话。
// GET /ws/recommend/:token
func (h *WsHandler) Recommend(c *gin.Context) {
	// 1. 校验握手 token（短时有效）
	claims, err := h.jwtManager.VerifyToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    http.StatusUnauthorized,
			"message": "无效或已过期的 WebSocket token",
		})
		return
	}

	// 2. 升级连接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()
	log.Infof("[WsHandler] WebSocket 会话建立, userID: %d", claims.UserID)

	// 3. 会话循环：每条查询帧对应一条结果帧
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Infof("[WsHandler] WebSocket 会话结束, userID: %d, reason: %v", claims.UserID, err)
			return
		}

		var q wsQuery
		if err := json.Unmarshal(msg, &q); err != nil {
			h.writeJSON(conn, wsError{Type: "error", Message: "无法解析查询帧"})
			continue
		}
		resp, err := h.recommendService.Recommend(c.Request.Context(), claims.UserID, q.Query, q.TopK, q.blendAlpha())
		if err != nil {
			h.writeJSON(conn, wsError{Type: "error", Message: err.Error()})
			continue
		}
		h.writeJSON(conn, wsResult{Type: "recommendation", Data: resp})
	}
}

func (h *WsHandler) writeJSON(conn *websocket.Conn, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Warnf("[WsHandler] 写入 WebSocket 消息失败: %v", err)
	}
}
